package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rpggio/arranger/internal/arrangement"
	"github.com/rpggio/arranger/internal/document"
	"github.com/rpggio/arranger/internal/domain/project"
	"github.com/spf13/cobra"
)

func newProjectsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := opts.projects.List(cmd.Context(), opts.tenant)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tREV\tTRACKS\tBARS\tSAVED")
			for _, p := range list {
				saved := "never"
				if p.SavedAt != nil {
					saved = p.SavedAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					p.ID, p.Name, p.ContainerType, p.Revision, p.TrackCount, p.LengthBars, saved)
			}
			return w.Flush()
		},
	}
}

func newCreateCmd(opts *options) *cobra.Command {
	var req project.CreateRequest
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			proj, err := opts.projects.Create(cmd.Context(), opts.tenant, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), proj.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.ID, "id", "", "Project id (generated when empty)")
	cmd.Flags().StringVar(&req.Description, "description", "", "Project description")
	cmd.Flags().StringVar(&req.ContainerType, "type", project.DefaultContainerType, "Container type (songeditor or bbeditor)")
	return cmd
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print the track layout of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ar, err := opts.projects.LoadArrangement(cmd.Context(), opts.tenant, args[0], project.LoadOptions{})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s) revision %d, %d bars\n",
				ar.Project.Name, ar.Container.Type(), ar.Revision, ar.Container.Length())

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tKIND\tMUTED\tCLIPS\tBARS\tID")
			for i, t := range ar.Container.Tracks() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\n",
					i, t.Kind(), yesNo(t.Muted()), t.NumClips(), t.Length(), t.ID())
			}
			if err := w.Flush(); err != nil {
				return err
			}
			for _, f := range ar.Session.Failures() {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %v\n", f)
			}
			return nil
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a project's arrangement document as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := opts.projects.Export(cmd.Context(), opts.tenant, args[0])
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(output, data, 0o644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout when empty)")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	var req project.CreateRequest
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create a project from an arrangement document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			typ, err := validateDocument(cmd.Context(), data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if req.Name == "" {
				req.Name = args[0]
			}
			req.ContainerType = typ

			proj, err := opts.projects.Create(cmd.Context(), opts.tenant, req)
			if err != nil {
				return err
			}
			rev, failures, err := opts.projects.Import(cmd.Context(), opts.tenant, proj.ID, data)
			if err != nil {
				return err
			}
			for _, f := range failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %v\n", f)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s revision %d\n", proj.ID, rev)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.ID, "id", "", "Project id (generated when empty)")
	cmd.Flags().StringVar(&req.Name, "name", "", "Project name (file name when empty)")
	return cmd
}

// validateDocument loads data into a scratch container and returns its
// container type.
func validateDocument(ctx context.Context, data []byte) (string, error) {
	root, err := document.Unmarshal(data)
	if err != nil {
		return "", err
	}
	c := arrangement.NewContainer(arrangement.Options{Type: root.String("type")})
	if err := c.Load(ctx, root, nil); err != nil {
		return "", err
	}
	return c.Type(), nil
}

func newKeysCmd(opts *options) *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys for the HTTP transport",
	}
	var description string
	addCmd := &cobra.Command{
		Use:   "add <token>",
		Short: "Register a bearer token for the tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.keys.Create(cmd.Context(), opts.tenant, args[0], description); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "key added for tenant %s\n", opts.tenant)
			return nil
		},
	}
	addCmd.Flags().StringVar(&description, "description", "", "Note stored with the key")
	keysCmd.AddCommand(addCmd)
	return keysCmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
