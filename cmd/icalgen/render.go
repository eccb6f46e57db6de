package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/luxifer/ical"
)

// renderer renders YAML documents to iCalendar streams, either one file per
// document in outDir or concatenated on stdout in argument order.
type renderer struct {
	logger log.Logger
	outDir string
	conv   converter
	stdout io.Writer
}

func newRenderer(logger log.Logger, outDir, prodID string, stdout io.Writer) *renderer {
	return &renderer{
		logger: logger,
		outDir: outDir,
		conv: converter{
			prodID: prodID,
			now:    time.Now().UTC().Truncate(time.Second),
			newUID: uuid.NewString,
		},
		stdout: stdout,
	}
}

func (r *renderer) renderAll(ctx context.Context, paths []string, concurrency int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	outs := make([]bytes.Buffer, len(paths))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return r.renderFile(path, &outs[i])
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if r.outDir != "" {
		return nil
	}
	for i := range outs {
		if _, err := outs[i].WriteTo(r.stdout); err != nil {
			return errors.Wrap(err, "write stdout")
		}
	}
	return nil
}

// renderFile renders the document at path to its file in outDir, or to buf
// when there is no outDir.
func (r *renderer) renderFile(path string, buf *bytes.Buffer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	cal, err := r.conv.calendar(&doc)
	if err != nil {
		return errors.Wrap(err, path)
	}

	if r.outDir == "" {
		if err := ical.Format(buf, cal); err != nil {
			return errors.Wrapf(err, "format %s", path)
		}
		level.Debug(r.logger).Log("msg", "calendar rendered", "input", path, "events", len(cal.Events), "todos", len(cal.Todos))
		return nil
	}

	name := doc.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	out := filepath.Join(r.outDir, name+".ics")
	if err := writeCalendar(out, cal); err != nil {
		return errors.Wrapf(err, "format %s", path)
	}
	level.Info(r.logger).Log("msg", "calendar rendered", "input", path, "output", out, "events", len(cal.Events), "todos", len(cal.Todos))
	return nil
}

// writeCalendar writes cal to a new file at path. The file is removed when
// formatting fails.
func writeCalendar(path string, cal *ical.Calendar) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := ical.Format(bw, cal); err != nil {
		return err
	}
	return bw.Flush()
}
