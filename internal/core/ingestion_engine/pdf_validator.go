package ingestion_engine

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/markdave123-py/paperdigest/internal/core"
	"github.com/markdave123-py/paperdigest/internal/models"
)

func init() {
	// pdfcpu writes a config dir under the user's home unless told otherwise.
	api.DisableConfigDir()
}

// PDFValidator checks document structure before any text is extracted.
type PDFValidator struct {
	conf *model.Configuration
}

func NewPDFValidator() *PDFValidator {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFValidator{conf: conf}
}

// Inspect validates doc and records its page count.
// Bytes without a PDF header are InvalidFormat; a PDF that cannot be parsed is CorruptDocument.
func (v *PDFValidator) Inspect(doc *models.Document) (err error) {
	if !HasPDFSignature(doc.Bytes) {
		return core.InvalidFormatError("missing %PDF- header", nil)
	}

	defer func() {
		if r := recover(); r != nil {
			err = core.CorruptDocumentError("validate pdf", fmt.Errorf("%v", r))
		}
	}()

	n, err := api.PageCount(bytes.NewReader(doc.Bytes), v.conf)
	if err != nil {
		return core.CorruptDocumentError("validate pdf", err)
	}
	if n == 0 {
		return core.CorruptDocumentError("document has no pages", nil)
	}

	doc.PageCount = n
	return nil
}
