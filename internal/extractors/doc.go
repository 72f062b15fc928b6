// Package extractors turns uploaded file bytes into plain text.
//
// Each sub-package implements driven.TextExtractor for the MIME types it
// lists. The document service picks an extractor by the upload's content type.
package extractors
