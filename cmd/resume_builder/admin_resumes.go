package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/admin"
	"github.com/jonathan/resume-builder/internal/api"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/spf13/cobra"
)

var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submitted resumes, newest first",
	Args:  cobra.NoArgs,
	RunE:  runAdminList,
}

var adminShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one submitted resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminShow,
}

var adminDownloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Download the PDF of a submitted resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminDownload,
}

var adminDownloadPageCmd = &cobra.Command{
	Use:   "download-page",
	Short: "Download the PDFs of every resume on a list page",
	Args:  cobra.NoArgs,
	RunE:  runAdminDownloadPage,
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a submitted resume",
	Long:  "Deletes a submitted resume after confirmation. Without --yes the command asks before deleting.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminDelete,
}

var (
	adminPage         int
	adminPerPage      int
	adminDownloadName string
	adminOutDir       string
	adminWorkers      int
	adminDeleteYes    bool
)

func init() {
	for _, c := range []*cobra.Command{adminListCmd, adminDownloadPageCmd} {
		c.Flags().IntVar(&adminPage, "page", 1, "Page number")
		c.Flags().IntVar(&adminPerPage, "per-page", api.DefaultPerPage, "Resumes per page")
	}
	for _, c := range []*cobra.Command{adminDownloadCmd, adminDownloadPageCmd} {
		c.Flags().StringVarP(&adminOutDir, "out", "o", ".", "Output directory")
	}
	adminDownloadCmd.Flags().StringVar(&adminDownloadName, "name", "", "Candidate name used for the file name (looked up when omitted)")
	adminDownloadPageCmd.Flags().IntVar(&adminWorkers, "workers", 4, "Concurrent downloads")
	adminDeleteCmd.Flags().BoolVarP(&adminDeleteYes, "yes", "y", false, "Delete without asking")

	adminCmd.AddCommand(adminListCmd, adminShowCmd, adminDownloadCmd, adminDownloadPageCmd, adminDeleteCmd)
}

// adminController builds the controller for a command that needs a logged-in session.
func adminController(cmd *cobra.Command, opts ...admin.Option) (*admin.Controller, error) {
	a, err := newApp(cmd)
	if err != nil {
		return nil, err
	}
	ctrl, err := a.controller(opts...)
	if err != nil {
		return nil, err
	}
	if !ctrl.Authenticated() {
		return nil, adminError(admin.ErrNotAuthenticated)
	}
	return ctrl, nil
}

func runAdminList(cmd *cobra.Command, _ []string) error {
	ctrl, err := adminController(cmd)
	if err != nil {
		return err
	}
	list, err := ctrl.FetchPage(cmd.Context(), adminPage, adminPerPage)
	if err != nil {
		return adminError(err)
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintResumeList(list)
	snap := ctrl.Snapshot()
	var nav []string
	if snap.HasPrev() {
		nav = append(nav, fmt.Sprintf("previous: --page %d", snap.Page-1))
	}
	if snap.HasNext() {
		nav = append(nav, fmt.Sprintf("next: --page %d", snap.Page+1))
	}
	if len(nav) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(nav, "  "))
	}
	return nil
}

func runAdminShow(cmd *cobra.Command, args []string) error {
	ctrl, err := adminController(cmd)
	if err != nil {
		return err
	}
	resume, err := ctrl.SelectResume(cmd.Context(), args[0])
	if err != nil {
		return adminError(err)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintResume("RESUME "+args[0], resume, false)
	return nil
}

func runAdminDownload(cmd *cobra.Command, args []string) error {
	ctrl, err := adminController(cmd)
	if err != nil {
		return err
	}
	id, name := args[0], adminDownloadName
	if name == "" {
		resume, err := ctrl.SelectResume(cmd.Context(), id)
		if err != nil {
			return adminError(err)
		}
		name = resume.FullName
	}

	artifact, err := ctrl.DownloadAsAdmin(cmd.Context(), id, name)
	if err != nil {
		return adminError(err)
	}
	path, err := artifact.Save(adminOutDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "PDF saved to %s\n", path)
	return nil
}

func runAdminDownloadPage(cmd *cobra.Command, _ []string) error {
	ctrl, err := adminController(cmd, admin.WithDownloadWorkers(adminWorkers))
	if err != nil {
		return err
	}
	if _, err := ctrl.FetchPage(cmd.Context(), adminPage, adminPerPage); err != nil {
		return adminError(err)
	}
	paths, err := ctrl.DownloadPage(cmd.Context(), adminOutDir)
	if err != nil {
		return adminError(err)
	}
	for _, path := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %d PDFs\n", len(paths))
	return nil
}

func runAdminDelete(cmd *cobra.Command, args []string) error {
	ctrl, err := adminController(cmd)
	if err != nil {
		return err
	}
	id := args[0]

	confirm := admin.Confirmation(adminDeleteYes)
	if !adminDeleteYes {
		fmt.Fprintf(cmd.OutOrStdout(), "Are you sure you want to delete resume %s? [y/N]: ", id)
		answer, err := readLine(cmd)
		if err != nil {
			return err
		}
		answer = strings.ToLower(answer)
		confirm = admin.Confirmation(answer == "y" || answer == "yes")
	}

	err = ctrl.DeleteResume(cmd.Context(), id, confirm)
	switch {
	case errors.Is(err, admin.ErrNotConfirmed):
		fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
		return nil
	case err != nil:
		return adminError(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Resume %s deleted\n", id)
	return nil
}
