package docstore

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/inbucket/html2text"
	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedType marks an upload with an extension ExtractText cannot
// handle. Callers turn it into a user-facing hint.
var ErrUnsupportedType = errors.New("unsupported document type")

// SupportedTypes is the accepted extension list, for user-facing messages.
var SupportedTypes = []string{".pdf", ".docx", ".txt", ".md", ".html", ".htm"}

// ExtractText pulls plain text out of an uploaded file, dispatching on the
// filename extension.
func ExtractText(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return strings.TrimSpace(string(data)), nil
	case ".html", ".htm":
		return extractHTML(data)
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(filename))
	}
}

func extractHTML(data []byte) (string, error) {
	text, err := html2text.FromReader(bytes.NewReader(data), html2text.Options{OmitLinks: true})
	if err != nil {
		return "", fmt.Errorf("failed to extract html text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	body, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, body); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// extractDOCX walks word/document.xml collecting run text. Paragraph ends
// become newlines, explicit breaks and tabs keep words separated.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("docx is missing word/document.xml")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open docx document: %w", err)
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	var sb strings.Builder
	var inText bool

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse docx document: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "br":
				sb.WriteString("\n")
			case "tab":
				sb.WriteString(" ")
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(el)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
