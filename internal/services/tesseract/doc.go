// Package tesseract wraps the tesseract OCR command line.
//
// Client probes the installed engine, recognizes text in saved frame images,
// and can fetch missing traineddata files into a tessdata directory so a
// fresh machine can be prepared without a package manager.
package tesseract
