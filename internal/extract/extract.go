package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MinLegibleChars is the minimum amount of extracted text considered usable.
// Below this, a PDF is treated as scanned/image-based.
const MinLegibleChars = 20

// Legible reports whether extracted text is long enough to be worth sending
// to the extraction model.
func Legible(text string) bool {
	return len(strings.TrimSpace(text)) >= MinLegibleChars
}

// PDFText extracts plain text from a PDF. The primary reader is tried first;
// when it errors or yields no usable text, a raw content-stream scan is used
// as a fallback. Both legitimately return empty text for scanned documents.
func PDFText(data []byte) (string, error) {
	text, primaryErr := pdfTextPrimary(data)
	if primaryErr == nil && Legible(text) {
		return text, nil
	}

	fallback, fallbackErr := pdfTextFallback(data)
	if fallbackErr != nil {
		if primaryErr != nil {
			return "", fmt.Errorf("pdf extract: primary: %v; fallback: %w", primaryErr, fallbackErr)
		}
		return text, nil
	}
	if len(strings.TrimSpace(fallback)) > len(strings.TrimSpace(text)) {
		return fallback, nil
	}
	return text, nil
}

// pdfTextPrimary uses github.com/ledongthuc/pdf.
func pdfTextPrimary(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// pdfTextFallback uses github.com/pdfcpu/pdfcpu to walk page content streams
// and collect literal string operands. Cruder than the primary reader, but it
// survives documents the primary chokes on.
func pdfTextFallback(data []byte) (string, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return "", err
	}
	if err := api.ValidateContext(ctx); err != nil {
		return "", err
	}

	var buf strings.Builder
	for page := 1; page <= ctx.PageCount; page++ {
		r, err := pdfcpu.ExtractPageContent(ctx, page)
		if err != nil || r == nil {
			continue
		}
		raw, err := io.ReadAll(r)
		if err != nil {
			continue
		}
		if text := contentStreamText(raw); text != "" {
			if buf.Len() > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString(text)
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

// contentStreamText pulls literal string operands out of a decoded PDF
// content stream. Handles nested parens and backslash escapes.
func contentStreamText(stream []byte) string {
	var out strings.Builder
	depth := 0
	escaped := false
	var current strings.Builder

	for _, b := range stream {
		if depth == 0 {
			if b == '(' {
				depth = 1
				current.Reset()
			}
			continue
		}
		if escaped {
			switch b {
			case 'n':
				current.WriteByte('\n')
			case 't':
				current.WriteByte('\t')
			case '(', ')', '\\':
				current.WriteByte(b)
			}
			escaped = false
			continue
		}
		switch b {
		case '\\':
			escaped = true
		case '(':
			depth++
			current.WriteByte(b)
		case ')':
			depth--
			if depth == 0 {
				if s := current.String(); strings.TrimSpace(s) != "" {
					if out.Len() > 0 {
						out.WriteString(" ")
					}
					out.WriteString(s)
				}
			} else {
				current.WriteByte(b)
			}
		default:
			current.WriteByte(b)
		}
	}
	return strings.TrimSpace(out.String())
}
