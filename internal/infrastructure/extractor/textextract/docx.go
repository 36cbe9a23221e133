package textextract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

const (
	docxDocumentXMLPath = "word/document.xml"
	contentTypesPath    = "[Content_Types].xml"
	docxMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"

	// wordprocessingML namespace of w:* elements.
	wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

// oleSignature starts every legacy compound-file .doc.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

var (
	partNameRe  = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"`)
	partNameRe2 = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"[^>]+PartName="([^"]+)"`)
)

var errLegacyDoc = errors.New("legacy binary .doc format is not supported; convert to .docx or PDF")

func extractDOCX(body io.Reader, legacyHint bool) domain.ExtractedDocument {
	ra, size, err := readerAt(body)
	if err != nil {
		return domain.FailedExtraction(domain.SourceDOCX, err)
	}

	head := make([]byte, len(oleSignature))
	if n, _ := ra.ReadAt(head, 0); n == len(head) && bytes.Equal(head, oleSignature) {
		return domain.FailedExtraction(domain.SourceDOCX, errLegacyDoc)
	}

	zr, err := zip.NewReader(ra, size)
	if err != nil {
		if legacyHint {
			return domain.FailedExtraction(domain.SourceDOCX, errLegacyDoc)
		}
		return domain.FailedExtraction(domain.SourceDOCX, fmt.Errorf("open docx: not a zip archive: %w", err))
	}

	var warnings []string
	docPath := mainDocumentPath(zr)
	if docPath == "" {
		docPath = docxDocumentXMLPath
		warnings = append(warnings, "main document part not declared; using "+docxDocumentXMLPath)
	}

	var part *zip.File
	media := 0
	for _, f := range zr.File {
		if f.Name == docPath {
			part = f
		}
		if strings.HasPrefix(f.Name, "word/media/") {
			media++
		}
	}
	if part == nil {
		return domain.FailedExtraction(domain.SourceDOCX, fmt.Errorf("open docx: %s not found", docPath))
	}
	if media > 0 {
		warnings = append(warnings, fmt.Sprintf("%d embedded media file(s) not extracted", media))
	}

	rc, err := part.Open()
	if err != nil {
		return domain.FailedExtraction(domain.SourceDOCX, fmt.Errorf("open %s: %w", part.Name, err))
	}
	defer rc.Close()

	text, paragraphs, err := wordText(rc)
	if err != nil {
		return domain.FailedExtraction(domain.SourceDOCX, fmt.Errorf("parse %s: %w", part.Name, err))
	}

	metadata := map[string]any{"paragraphs": paragraphs}
	if len(warnings) > 0 {
		metadata["warnings"] = warnings
	}
	return domain.NewExtracted(domain.SourceDOCX, text, metadata)
}

// wordText walks the document part: w:t runs are concatenated, w:p ends a
// line, w:tab and w:br map to tab and newline.
func wordText(r io.Reader) (string, int, error) {
	dec := xml.NewDecoder(r)
	var (
		b          strings.Builder
		line       strings.Builder
		inText     bool
		paragraphs int
	)
	endParagraph := func() {
		if s := strings.TrimRight(line.String(), " \t"); s != "" {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(s)
			paragraphs++
		}
		line.Reset()
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", 0, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNamespace && t.Name.Space != "w" {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				line.WriteByte('\t')
			case "br", "cr":
				line.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Space != wordNamespace && t.Name.Space != "w" {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				endParagraph()
			}
		case xml.CharData:
			if inText {
				line.Write(t)
			}
		}
	}
	endParagraph()
	return b.String(), paragraphs, nil
}

func mainDocumentPath(zr *zip.Reader) string {
	for _, f := range zr.File {
		if f.Name != contentTypesPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return ""
		}
		raw, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return ""
		}
		content := string(raw)
		if m := partNameRe.FindStringSubmatch(content); len(m) > 1 {
			return strings.TrimPrefix(m[1], "/")
		}
		if m := partNameRe2.FindStringSubmatch(content); len(m) > 1 {
			return strings.TrimPrefix(m[1], "/")
		}
		return ""
	}
	return ""
}
