package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored media items",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := newClient(apiFlag).R()
			if limit > 0 {
				req.SetQueryParam("limit", strconv.Itoa(limit))
			}
			resp, err := req.Get("/get_saved_messages_media")
			if err != nil {
				return err
			}
			if err := checkStatus(resp); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, strings.TrimSpace(string(resp.Body())))
			return nil
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of items")
	rootCmd.AddCommand(listCmd)

	var outPath string
	getCmd := &cobra.Command{
		Use:   "get MEDIA_ID",
		Short: "Download a media item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				outPath = args[0]
			}
			resp, err := newClient(apiFlag).R().
				SetOutput(outPath).
				Get("/stream_media/" + args[0])
			if err != nil {
				return err
			}
			if err := checkStatus(resp); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Saved %s\n", outPath)
			return nil
		},
	}
	getCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file (defaults to the media ID)")
	rootCmd.AddCommand(getCmd)

	var name, tags string
	uploadCmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a file to storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := newClient(apiFlag).R().SetFile("file", args[0])
			form := map[string]string{}
			if name != "" {
				form["fileName"] = name
			}
			if tags != "" {
				form["tags"] = tags
			}
			if len(form) > 0 {
				req.SetFormData(form)
			}
			resp, err := req.Post("/upload_file")
			if err != nil {
				return err
			}
			if err := checkStatus(resp); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, strings.TrimSpace(string(resp.Body())))
			return nil
		},
	}
	uploadCmd.Flags().StringVarP(&name, "name", "n", "", "Display name override")
	uploadCmd.Flags().StringVarP(&tags, "tags", "t", "", "Tags, space or comma separated")
	rootCmd.AddCommand(uploadCmd)
}
