package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"rtfgen/config"
	"rtfgen/element"
	"rtfgen/misc"
	"rtfgen/rtf"
	"rtfgen/source"
	"rtfgen/state"
)

// processDocument converts single source document. "src" is part of the
// source path (always including file name) relative to the original path.
// "baseDir" resolves images referenced by path, it is empty for archived
// sources. "utf8" tells that reader already produces UTF-8.
func processDocument(ctx context.Context, r io.Reader, src, baseDir string, utf8 bool, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var outputName string

	refID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("unable to generate document id: %w", err)
	}
	log = log.With(zap.Stringer("ref_id", refID))

	log.Info("Conversion starting", zap.String("from", src))
	defer func(start time.Time) {
		// NOTE: image libraries may panic on broken input, when multiple
		// documents are being processed we do not want to stop.
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("unable to read source (%s): %w", src, err)
	}
	if env.Rpt != nil {
		env.Rpt.StoreData(fmt.Sprintf("source-%s%s", refID, filepath.Ext(src)), data)
	}

	doc, err := source.Parse(ctx, bytes.NewReader(data), source.Options{
		BaseDir:      baseDir,
		BaseFontSize: env.Cfg.Document.DefaultFont.Size,
		UTF8:         utf8,
	}, log)
	if err != nil {
		return fmt.Errorf("unable to parse source (%s): %w", src, err)
	}

	outputName = buildOutputPath(doc, src, dst, refID.String(), env)
	if err := prepareOutput(outputName, env.Overwrite, log); err != nil {
		return err
	}

	out := &outputFile{name: outputName}
	completed := false
	defer func() {
		// runs when panicking too
		if completed {
			return
		}
		if err := out.discard(); err != nil {
			log.Warn("Unable to remove partial output", zap.String("file", outputName), zap.Error(err))
		}
	}()

	w := rtf.NewWriter(out, writerOptions(&env.Cfg.Document, doc, log)...)
	if env.Cfg.Document.PageNumbers && doc.Footer == nil {
		doc.Footer = &element.HeaderFooter{PageNumbers: true, Alignment: element.AlignCenter}
	}
	if err := doc.Write(w); err != nil {
		log.Warn("Some of the content could not be converted", zap.Int("count", len(multierr.Errors(err))))
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("unable to generate output: %w", err)
	}
	completed = true
	if diags := w.Diagnostics(); diags != nil {
		log.Debug("Document diagnostics", zap.Int("skipped", len(multierr.Errors(diags))))
	}

	// Store conversion result for debugging
	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("result-%s.rtf", refID), outputName)
		env.Rpt.StoreData(fmt.Sprintf("dump-%s.txt", refID), []byte(w.Document().Dump()))
	}
	return nil
}

// outputFile is created on first write, so nothing appears on disk while
// document is being built.
type outputFile struct {
	name string
	f    *os.File
}

func (o *outputFile) Write(p []byte) (int, error) {
	if o.f == nil {
		f, err := os.Create(o.name)
		if err != nil {
			return 0, fmt.Errorf("unable to create output file: %w", err)
		}
		o.f = f
	}
	return o.f.Write(p)
}

func (o *outputFile) Close() error {
	if o.f == nil {
		return nil
	}
	f := o.f
	o.f = nil
	return f.Close()
}

// discard closes file if it is still open and removes whatever was written.
func (o *outputFile) discard() error {
	err := o.Close()
	if rmErr := os.Remove(o.name); rmErr != nil && !os.IsNotExist(rmErr) {
		err = multierr.Append(err, rmErr)
	}
	return err
}

// prepareOutput makes sure file could be written to.
func prepareOutput(outputName string, overwrite bool, log *zap.Logger) error {
	if _, err := os.Stat(outputName); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		return os.Remove(outputName)
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

// writerOptions combines configuration with document metadata, document
// wins where both say something.
func writerOptions(cfg *config.DocumentConfig, doc *source.Document, log *zap.Logger) []rtf.Option {
	width, height := cfg.PageSize.Dimensions()

	lang := doc.Language
	if lang == "" {
		lang = cfg.Language
	}
	info := doc.Info
	if info.Creator == "" {
		info.Creator = misc.GetAppName() + " " + misc.GetVersion()
	}

	return []rtf.Option{
		rtf.WithLogger(log),
		rtf.WithPageSize(width, height, cfg.Landscape),
		rtf.WithMargins(rtf.Margins{
			Left:   cfg.Margins.Left,
			Right:  cfg.Margins.Right,
			Top:    cfg.Margins.Top,
			Bottom: cfg.Margins.Bottom,
		}),
		rtf.WithDefaultFont(element.Font{Family: cfg.DefaultFont.Family, Size: cfg.DefaultFont.Size}),
		rtf.WithImageOptions(rtf.ImageOptions{
			ScaleFactor: cfg.Images.ScaleFactor,
			JPEGQuality: cfg.Images.JPEGQuality,
			Grayscale:   cfg.Images.Grayscale,
			WrapBMP:     cfg.Images.WrapBMP,
			SVGWidth:    cfg.Images.SVGWidth,
		}),
		rtf.WithTableOptions(cfg.Tables.WidthPercent, cfg.Tables.Padding),
		rtf.WithLanguage(lang),
		rtf.WithInfo(info),
		rtf.WithAutoTOC(cfg.AutoTOC),
	}
}
