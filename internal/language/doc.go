// Package language provides unified language code normalization and mapping.
//
// The speech engines expect ISO 639-1 codes ("en") while tesseract expects
// its own traineddata names, which are mostly ISO 639-2 ("eng"). Both
// configured values are normalized here so neither engine sees a code it
// cannot resolve. Region-qualified BCP-47 tags ("en-US") are accepted too.
package language
