package services

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// ErrScannedDocument means the PDF carried no usable text layer. OCR is
// an external concern; callers surface the diagnostic and may still run
// regex extraction over whatever text came back.
var ErrScannedDocument = errors.New("документ похож на скан: текстовый слой не найден")

// minTextLen separates a real text layer from scan garbage.
const minTextLen = 50

// ExtractText sniffs the true file type by magic bytes and extracts the
// text content. Supported inputs: PDF and plain text.
func ExtractText(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("пустой файл: %s", name)
	}

	if isPDF(data) {
		text, err := extractPDF(data)
		if err != nil {
			return "", fmt.Errorf("извлечение текста PDF: %w", err)
		}
		if len(strings.TrimSpace(text)) < minTextLen {
			return text, ErrScannedDocument
		}
		return text, nil
	}

	if isProbablyText(data) {
		return string(data), nil
	}

	return "", fmt.Errorf("неподдерживаемый тип файла: %s", name)
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isProbablyText(b []byte) bool {
	sample := b
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
	}
	return true
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// Keep whatever earlier pages produced.
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
