package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpfielding/ophdicom.go/pkg/dicom"
)

// NewDecodeCmd dumps every top level element of a dataset
func NewDecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "DICOM decode",
		Long:  "decodes a DICOM file from a path, stdin (-) or an http(s) URL and prints every element",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader
			dcmPath, _ := cmd.Flags().GetString("uri")
			if dcmPath == "" && len(args) > 0 {
				dcmPath = args[0]
			}
			dcmPath = strings.TrimPrefix(dcmPath, "file://")
			switch {
			case dcmPath == "":
				return fmt.Errorf("a path, - or URL is required")
			case dcmPath == "-":
				in = os.Stdin
			case strings.HasPrefix(dcmPath, "http"):
				req, err := http.NewRequestWithContext(ctx, http.MethodGet, dcmPath, nil)
				if err != nil {
					return fmt.Errorf("failed to create request: %v", err)
				}
				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					return fmt.Errorf("failed to download: %v", err)
				}
				defer resp.Body.Close()
				verbose, _ := cmd.Flags().GetBool("verbose")
				if verbose {
					reqDump, _ := httputil.DumpRequest(req, true)
					os.Stderr.Write(reqDump)
					resDump, _ := httputil.DumpResponse(resp, false)
					os.Stderr.Write(resDump)
				}
				if resp.StatusCode != http.StatusOK {
					return fmt.Errorf("failed to download: %s", resp.Status)
				}
				in = resp.Body
			default:
				f, err := os.Open(dcmPath)
				if err != nil {
					return fmt.Errorf("failed to open file: %v", err)
				}
				defer f.Close()
				in = f
			}
			dataset, err := dicom.Parse(bufio.NewReader(in))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format, _ := cmd.Flags().GetString("output"); format {
			case "text": // Dataset prints one element per line
				fmt.Fprintln(out, dataset)
			default:
				j, err := json.Marshal(dataset)
				if err != nil {
					return err
				}
				out.Write(j)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringP("uri", "u", "", "DICOM path, - for stdin, or http(s) URL")
	f.StringP("output", "o", "json", "output format (text|json)")
	f.BoolP("verbose", "v", false, "dump http request and response headers")
	return cmd
}
