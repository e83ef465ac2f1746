package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpfielding/ophdicom.go/pkg/dicom"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/dict"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/tag"
	"github.com/jpfielding/ophdicom.go/pkg/dicom/vr"
)

// NewAnalyzeCmd creates the analyze cobra command
func NewAnalyzeCmd(ctx context.Context, s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "summarise DICOM file structure",
		Long:  "Prints the file meta group, identifying attributes, the matching rule table, sequences and the pixel data layout of a DICOM file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dumpFrame, _ := cmd.Flags().GetInt("dump-frame")
			out, _ := cmd.Flags().GetString("frame-out")
			return runAnalyze(cmd.OutOrStdout(), s, args[0], dumpFrame, out)
		},
	}

	f := cmd.Flags()
	f.Int("dump-frame", -1, "Index of an encapsulated fragment to dump to disk")
	f.String("frame-out", "", "Output path for the dumped fragment")

	return cmd
}

func runAnalyze(w io.Writer, s *settings, filePath string, dumpFrame int, outPath string) error {
	ds, err := dicom.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	fmt.Fprintf(w, "Total elements: %d\n\n", len(ds.Elements))

	fmt.Fprintln(w, "=== Key Metadata ===")
	syntax := dicom.TransferSyntax(ds)
	fmt.Fprintf(w, "TransferSyntax: %s (%s)\n", syntax, syntax.Name())
	fmt.Fprintf(w, "Encapsulated: %v\n", syntax.IsEncapsulated())
	sop := dicom.SOPClassUID(ds)
	fmt.Fprintf(w, "SOPClassUID: %s\n", sop)
	fmt.Fprintf(w, "Modality: %s\n", dicom.Modality(ds))
	for _, t := range []tag.Tag{tag.Manufacturer, tag.ManufacturerModelName, tag.ImageLaterality, tag.Rows, tag.Columns, tag.NumberOfFrames, tag.SamplesPerPixel, tag.PhotometricInterpretation} {
		if e, ok := ds.Get(t); ok {
			fmt.Fprintf(w, "%s: %v\n", dict.Standard().Name(t), e.Values())
		}
	}
	if rs, ok := s.catalog.ForSOPClass(sop); ok {
		fmt.Fprintf(w, "Rule table: %s\n", rs)
	} else {
		fmt.Fprintln(w, "Rule table: none")
	}

	var private int
	fmt.Fprintln(w, "\n=== Sequences ===")
	for _, t := range ds.Tags() {
		if t.IsPrivate() {
			private++
		}
		e := ds.Elements[t]
		if e.VR != vr.SQ {
			continue
		}
		items, _ := e.GetSequence()
		fmt.Fprintf(w, "%s %s: %d items\n", t, dict.Standard().Name(t), len(items))
	}
	fmt.Fprintf(w, "\nPrivate elements: %d\n\n", private)

	pixels, ok := ds.Get(tag.PixelData)
	if !ok {
		fmt.Fprintln(w, "No pixel data")
		return nil
	}
	fmt.Fprintln(w, "=== Pixel Data ===")
	dims := make([]int, 0, 3)
	for _, t := range []tag.Tag{tag.Rows, tag.Columns, tag.NumberOfFrames} {
		n := 1
		if e, ok := ds.Get(t); ok {
			if v, ok := e.GetInt(); ok {
				n = v
			}
		}
		dims = append(dims, n)
	}
	fmt.Fprintf(w, "Geometry: %dx%d, %d frames\n", dims[0], dims[1], dims[2])
	pd, ok := pixels.GetPixelData()
	if !ok {
		fmt.Fprintf(w, "Native: %v\n", pixels.Values())
		return nil
	}
	fmt.Fprintf(w, "Fragments: %d\n", len(pd.Frames))
	if len(pd.Offsets) > 0 {
		fmt.Fprintf(w, "BOT Offsets: %v\n", pd.Offsets)
	}
	for i, fr := range pd.Frames {
		if i == 3 {
			break
		}
		fmt.Fprintf(w, "Fragment %d: %d bytes\n", i, len(fr.CompressedData))
	}

	if dumpFrame >= 0 {
		if dumpFrame >= len(pd.Frames) {
			return fmt.Errorf("fragment index %d out of bounds (0-%d)", dumpFrame, len(pd.Frames)-1)
		}
		if outPath == "" {
			outPath = fmt.Sprintf("frame_%d.bin", dumpFrame)
		}
		data := pd.Frames[dumpFrame].CompressedData
		fmt.Fprintf(w, "Dumping fragment %d (%d bytes) to %s\n", dumpFrame, len(data), outPath)
		return os.WriteFile(outPath, data, 0644)
	}
	return nil
}
