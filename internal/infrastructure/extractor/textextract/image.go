package textextract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

// Runner lets tests stub the tesseract binary.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	if err != nil {
		slog.Error("exec_failed",
			"cmd", name,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
			"stderr", truncate(errb.String(), 8<<10),
		)
	}
	return out.Bytes(), errb.Bytes(), err
}

type OCRConfig struct {
	Binary      string
	Language    string
	TessdataDir string
	Runner      Runner
}

// OCR shells out to tesseract. Low confidence never fails extraction.
type OCR struct {
	cfg OCRConfig
}

func NewOCR(cfg OCRConfig) *OCR {
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.Runner == nil {
		cfg.Runner = execRunner{}
	}
	return &OCR{cfg: cfg}
}

func (o *OCR) Extract(ctx context.Context, body io.Reader, fileName string) domain.ExtractedDocument {
	path, cleanup, err := spoolToFile(body, fileName)
	if err != nil {
		return domain.FailedExtraction(domain.SourceImage, err)
	}
	defer cleanup()

	out, errb, err := o.cfg.Runner.Run(ctx, o.cfg.Binary, o.args(path)...)
	if err != nil {
		msg := strings.TrimSpace(string(errb))
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, truncate(msg, 512))
		}
		return domain.FailedExtraction(domain.SourceImage, fmt.Errorf("tesseract: %w", err))
	}

	metadata := map[string]any{
		"engine":   "tesseract",
		"language": o.cfg.Language,
	}
	tsv, _, err := o.cfg.Runner.Run(ctx, o.cfg.Binary, append(o.args(path), "tsv")...)
	if err != nil {
		metadata["warnings"] = []string{"word confidence unavailable: " + err.Error()}
	} else {
		stats := parseTSV(string(tsv))
		metadata["confidence"] = stats.confidence
		metadata["words"] = stats.words
		metadata["lines"] = stats.lines
	}

	return domain.NewExtracted(domain.SourceImage, normalizeOCRText(string(out)), metadata)
}

func (o *OCR) args(path string) []string {
	args := []string{path, "stdout", "-l", o.cfg.Language}
	if o.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", o.cfg.TessdataDir)
	}
	return args
}

type tsvStats struct {
	confidence float64
	words      int
	lines      int
}

// parseTSV reads tesseract's TSV output: level, page, block, par, line,
// word, left, top, width, height, conf, text. Word rows are level 5.
func parseTSV(out string) tsvStats {
	var (
		sum   float64
		n     int
		lines = map[string]struct{}{}
	)
	for i, row := range strings.Split(out, "\n") {
		if i == 0 || strings.TrimSpace(row) == "" {
			continue
		}
		cols := strings.Split(row, "\t")
		if len(cols) < 12 || cols[0] != "5" {
			continue
		}
		if strings.TrimSpace(cols[11]) == "" {
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		sum += conf
		n++
		lines[strings.Join(cols[1:5], "/")] = struct{}{}
	}
	if n == 0 {
		return tsvStats{}
	}
	return tsvStats{
		confidence: sum / float64(n) / 100,
		words:      n,
		lines:      len(lines),
	}
}

func normalizeOCRText(s string) string {
	s = strings.ReplaceAll(s, "\f", "\n")
	rows := strings.Split(s, "\n")
	for i, row := range rows {
		rows[i] = strings.TrimRight(row, " \t")
	}
	return strings.TrimSpace(strings.Join(rows, "\n"))
}

func spoolToFile(body io.Reader, fileName string) (string, func(), error) {
	if f, ok := body.(*os.File); ok {
		return f.Name(), func() {}, nil
	}
	tmp, err := os.CreateTemp("", "ocr-*"+filepath.Ext(fileName))
	if err != nil {
		return "", nil, fmt.Errorf("create ocr input: %w", err)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }
	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("write ocr input: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close ocr input: %w", err)
	}
	return tmp.Name(), cleanup, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
