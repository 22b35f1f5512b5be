package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/form"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/spf13/cobra"
)

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Fill in and submit a resume interactively",
	Long: `Starts an interactive resume form. Each line is an edit command, for example:

  set full_name Jane Doe
  add education
  update education 0 degree BSc Computer Science
  skills set Languages Go, SQL

Type 'help' for the full command list.`,
	RunE: runForm,
}

var formPDFDir string

func init() {
	formCmd.Flags().StringVar(&formPDFDir, "pdf-dir", ".", "Directory the 'pdf' command saves into")
	rootCmd.AddCommand(formCmd)
}

const formSessionHelp = `show                 print the draft with section indexes
submit               submit the draft
pdf                  download the PDF of the submitted resume
load <file>          replace the draft with a draft file
new                  discard the draft and start over
help                 show this help
quit                 leave the form`

// formSession drives one interactive form over a line-based terminal.
type formSession struct {
	form    *form.Form
	printer *observability.Printer
	out     io.Writer
	pdfDir  string
}

func runForm(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	s := &formSession{
		form:    form.New(a.client, form.WithLogger(a.logger)),
		printer: observability.NewPrinter(cmd.OutOrStdout()),
		out:     cmd.OutOrStdout(),
		pdfDir:  formPDFDir,
	}

	fmt.Fprintln(s.out, "Resume form. Type 'help' for commands.")
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if done := s.handle(cmd, strings.TrimSpace(scanner.Text())); done {
			return nil
		}
	}
}

// handle runs one input line and reports whether the session should end.
func (s *formSession) handle(cmd *cobra.Command, line string) bool {
	verb, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(verb) {
	case "":
		return false
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(s.out, form.CommandHelp)
		fmt.Fprintln(s.out, formSessionHelp)
	case "show":
		s.printer.PrintResume("RESUME DRAFT ("+s.form.State().String()+")", s.form.Draft(), true)
	case "new":
		s.form.Reset()
		fmt.Fprintln(s.out, "Started a new resume.")
	case "load":
		s.load(arg)
	case "submit":
		s.submit(cmd)
	case "pdf":
		s.downloadPDF(cmd)
	default:
		s.edit(line)
	}
	return false
}

func (s *formSession) edit(line string) {
	edit, err := form.ParseCommand(line)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if s.form.Apply(edit) {
		fmt.Fprintln(s.out, "ok")
		return
	}
	if s.form.State() != form.Editing {
		fmt.Fprintln(s.out, "The resume was already submitted. Type 'new' to start another one.")
		return
	}
	fmt.Fprintln(s.out, "No change (check the index or category name).")
}

func (s *formSession) load(path string) {
	if path == "" {
		fmt.Fprintln(s.out, "Error: load needs a file path")
		return
	}
	draft, problems, err := readDraft(path)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if draft == nil {
		s.printer.PrintProblems(problems)
		return
	}
	if err := s.form.LoadDraft(draft); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Loaded %s.\n", path)
	if len(problems) > 0 {
		s.printer.PrintProblems(problems)
	}
}

func (s *formSession) submit(cmd *cobra.Command) {
	id, err := s.form.Submit(cmd.Context())
	var invalid *form.ValidationError
	switch {
	case err == nil:
		s.printer.PrintMessage("SUBMITTED", fmt.Sprintf("✅ Resume submitted successfully\nResume ID: %s\nType 'pdf' to download it.", id))
	case errors.As(err, &invalid):
		s.printer.PrintProblems(invalid.Problems)
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *formSession) downloadPDF(cmd *cobra.Command) {
	artifact, err := s.form.DownloadPDF(cmd.Context())
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	path, err := artifact.Save(s.pdfDir)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "PDF saved to %s\n", path)
}
