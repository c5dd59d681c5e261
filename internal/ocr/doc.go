// Package ocr defines the OCR collaborator contract and its Tesseract
// implementation.
//
// The locator treats OCR as a black box producing (text, box, confidence)
// tuples; Engine is that capability interface. Concrete engines are chosen
// at startup configuration, never by runtime type inspection, so tests can
// substitute deterministic fakes.
//
// # Prerequisites
//
// The Tesseract engine requires the Tesseract library and language data on
// the system:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The container image built from the repository Dockerfile ships both.
package ocr
