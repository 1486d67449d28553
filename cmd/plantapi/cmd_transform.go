package main

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"plantapi/internal/openapi"
	"plantapi/internal/render"
	"plantapi/internal/uml"
)

type transformOpts struct {
	format   string
	outDir   string
	validate bool
	watch    bool
	workers  int
}

func newTransformCmd(a *app) *cobra.Command {
	var opts transformOpts

	cmd := &cobra.Command{
		Use:   "transform [file|dir ...]",
		Short: "Generate OpenAPI documents from diagrams",
		Long: `Generate an OpenAPI document for every diagram.

With no arguments the diagram is read from stdin and the document written to
stdout. A single file without --out-dir also goes to stdout. Several files go
to --out-dir, or next to their inputs when it is not set. Directories are
scanned for .plant, .puml, .plantuml and .pu files.

--watch keeps running and regenerates a document whenever its diagram changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				opts.format = a.cfg.OutputFormat
			}
			format, err := render.ParseFormat(opts.format)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				if opts.watch {
					return errors.New("--watch needs file arguments")
				}
				text, err := readSource(cmd, "")
				if err != nil {
					return err
				}
				doc, err := buildDocument(cmd.Context(), text, opts.validate)
				if err != nil {
					return err
				}
				return render.Encode(cmd.OutOrStdout(), doc, format)
			}

			inputs, err := collectInputs(args)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return errors.New("no diagram files found")
			}

			b := &batch{
				cmd:      cmd,
				log:      a.log,
				format:   format,
				validate: opts.validate,
				outputs:  map[string]string{},
			}
			if err := b.plan(inputs, opts.outDir); err != nil {
				return err
			}
			if err := b.run(cmd.Context(), inputs, opts.workers); err != nil {
				return err
			}
			if opts.watch {
				return b.watch(cmd.Context(), inputs)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: json, yaml or msgpack (default from config)")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "directory for generated documents")
	cmd.Flags().BoolVar(&opts.validate, "validate", false, "validate each document with kin-openapi")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "regenerate on change")
	cmd.Flags().IntVarP(&opts.workers, "workers", "j", runtime.GOMAXPROCS(0), "files transformed in parallel")

	return cmd
}

func buildDocument(ctx context.Context, text string, validate bool) (*openapi.Document, error) {
	doc := openapi.FromText(text)
	if validate {
		if err := openapi.Validate(ctx, doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// batch transforms a fixed set of files; outputs maps each input to its
// document path, or to "" for stdout.
type batch struct {
	cmd      *cobra.Command
	log      logrus.FieldLogger
	format   render.Format
	validate bool
	outputs  map[string]string
}

func (b *batch) plan(inputs []string, outDir string) error {
	if outDir == "" && len(inputs) == 1 {
		b.outputs[inputs[0]] = ""
		return nil
	}
	owner := map[string]string{}
	for _, in := range inputs {
		dir := outDir
		if dir == "" {
			dir = filepath.Dir(in)
		}
		name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + b.format.Extension()
		out := filepath.Join(dir, name)
		if prev, dup := owner[out]; dup {
			return errors.Errorf("%s and %s would both write %s", prev, in, out)
		}
		owner[out] = in
		b.outputs[in] = out
	}
	return nil
}

func (b *batch) run(ctx context.Context, inputs []string, workers int) error {
	if workers < 1 {
		workers = 1
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for _, in := range inputs {
		in := in
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return b.transformFile(ctx, in)
			}
		})
	}
	return eg.Wait()
}

func (b *batch) transformFile(ctx context.Context, in string) error {
	d, err := uml.LoadFile(in)
	if err != nil {
		return errors.Wrapf(err, "read %s", in)
	}
	doc := openapi.Transform(d)
	if b.validate {
		if err := openapi.Validate(ctx, doc); err != nil {
			return errors.Wrapf(err, "validate %s", in)
		}
	}

	out := b.outputs[in]
	if out == "" {
		return render.Encode(b.cmd.OutOrStdout(), doc, b.format)
	}
	if err := render.WriteFile(out, doc, b.format); err != nil {
		return errors.Wrapf(err, "write %s", out)
	}
	b.log.WithFields(logrus.Fields{
		"input":      in,
		"output":     out,
		"components": len(doc.Components.Schemas),
		"paths":      len(doc.Paths),
	}).Info("document written")
	return nil
}

// watch regenerates documents until ctx is done. Editors often replace files
// instead of writing them, so directories are watched rather than files.
func (b *batch) watch(ctx context.Context, inputs []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	tracked := map[string]string{}
	dirs := map[string]bool{}
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return err
		}
		tracked[abs] = in
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return errors.Wrapf(err, "watch %s", dir)
		}
	}
	b.log.WithField("files", len(tracked)).Info("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			in, ok := tracked[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			if err := b.transformFile(ctx, in); err != nil {
				// keep watching; the next save may fix it
				b.log.WithError(err).WithField("input", in).Error("transform failed")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			b.log.WithError(err).Warn("watcher error")
		}
	}
}
