// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/learning-commons-org/knowledge-graph/internal/embedding"
	"github.com/learning-commons-org/knowledge-graph/internal/provider"
	"github.com/learning-commons-org/knowledge-graph/internal/store"
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

// defaultTopK matches the default result count of the HTTP search endpoint.
const defaultTopK = 5

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func newSearchCmd() *cobra.Command {
	var (
		query string
		topK  int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search standards by meaning",
		Long:  "Rank standards by cosine similarity between the query embedding and the stored description embeddings. With --query the command prints one result set; without it an interactive prompt opens.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			session, err := newSearchSession(cmd.Context(), app, topK)
			if err != nil {
				return err
			}

			if query != "" {
				return runSearchOnce(cmd, session, query)
			}
			return runSearchREPL(cmd, session)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "query text; omit to search interactively")
	cmd.Flags().IntVarP(&topK, "top-k", "k", defaultTopK, "number of results to return")

	return cmd
}

// searchSession bundles everything one query needs: the embedder for the
// query text, the similarity index, and the entity store for enriching
// hits with descriptions.
type searchSession struct {
	embedder provider.Embedder
	engine   *embedding.SearchEngine
	entities store.EntityStore
	timeout  time.Duration
	topK     int
}

func newSearchSession(ctx context.Context, app *App, topK int) (*searchSession, error) {
	embeddings, err := app.openEmbeddingStore()
	if err != nil {
		return nil, err
	}

	records, err := embeddings.LoadAll(ctx)
	if err != nil {
		if kgerr.HasCode(err, kgerr.CodeEmbeddingFileMissing) {
			return nil, kgerr.Wrap(err, kgerr.CodeCLIInputInvalid,
				"no stored embeddings; run 'kgraph embed' first")
		}
		return nil, err
	}
	if len(records) == 0 {
		return nil, kgerr.New(kgerr.CodeCLIInputInvalid,
			"embedding store is empty; run 'kgraph embed' first")
	}

	engine, err := embedding.NewSearchEngine(records)
	if err != nil {
		return nil, err
	}

	embedder, err := app.newEmbedder()
	if err != nil {
		return nil, err
	}

	return &searchSession{
		embedder: embedder,
		engine:   engine,
		entities: app.Entities,
		timeout:  app.Config.Timeouts.Embed,
		topK:     topK,
	}, nil
}

// searchHit is one display-ready result line.
type searchHit struct {
	Code        string
	Score       float64
	Description string
}

// run embeds the query and ranks the stored records against it.
func (s *searchSession) run(ctx context.Context, query string) ([]searchHit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := s.engine.Search(vector, s.topK)
	if err != nil {
		return nil, err
	}

	hits := make([]searchHit, 0, len(results))
	for _, res := range results {
		hits = append(hits, s.hit(res))
	}
	return hits, nil
}

func (s *searchSession) hit(res embedding.Result) searchHit {
	code := res.Record.StatementCode
	if code == "" {
		code = "(no code)"
	}

	description := ""
	if std, ok := s.entities.StandardByID(res.Record.CaseIdentifierUUID); ok {
		description = std.Description
	}

	return searchHit{
		Code:        code,
		Score:       res.Score,
		Description: snippet(orText(description, "(no statement)"), 200),
	}
}

func runSearchOnce(cmd *cobra.Command, session *searchSession, query string) error {
	hits, err := session.run(cmd.Context(), query)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Search results for %q:\n", query)
	if len(hits) == 0 {
		fmt.Fprintln(out, "No results.")
		return nil
	}
	for i, h := range hits {
		fmt.Fprintf(out, "%d. %s (Score: %.4f)\n   %s\n", i+1, h.Code, h.Score, h.Description)
	}
	return nil
}

// --- Interactive prompt ---

func runSearchREPL(cmd *cobra.Command, session *searchSession) error {
	// Refuse to run interactively when stdin is not a terminal.
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok || !isTerminal(f) {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(),
			"kgraph search without --query requires an interactive terminal.")
		return kgerr.New(kgerr.CodeCLIInputInvalid, "kgraph search: not an interactive terminal")
	}

	p := tea.NewProgram(newSearchModel(session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return kgerr.Errorf(kgerr.CodeCLISetupFailure, "search prompt error: %w", err)
	}
	return nil
}

// isTerminal reports whether f is a terminal file descriptor.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

type searchResultsMsg struct {
	query string
	hits  []searchHit
}

type searchErrMsg struct {
	err error
}

// searchModel drives the interactive search prompt.
type searchModel struct {
	session   *searchSession
	input     textinput.Model
	spin      spinner.Model
	searching bool
	query     string // last executed query
	hits      []searchHit
	errText   string
	quitting  bool
}

func newSearchModel(session *searchSession) searchModel {
	ti := textinput.New()
	ti.Placeholder = "linear equations"
	ti.Prompt = "query> "
	ti.CharLimit = 256
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return searchModel{session: session, input: ti, spin: sp}
}

func (m searchModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m searchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.searching {
				return m, nil
			}
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				// Empty query ends the session.
				m.quitting = true
				return m, tea.Quit
			}
			m.searching = true
			m.errText = ""
			m.query = query
			return m, tea.Batch(m.spin.Tick, runSearchCmd(m.session, query))
		}

	case searchResultsMsg:
		m.searching = false
		m.hits = msg.hits
		m.input.SetValue("")
		return m, nil

	case searchErrMsg:
		m.searching = false
		m.errText = msg.err.Error()
		return m, nil

	case spinner.TickMsg:
		if !m.searching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// runSearchCmd executes the query off the update loop.
func runSearchCmd(session *searchSession, query string) tea.Cmd {
	return func() tea.Msg {
		hits, err := session.run(context.Background(), query)
		if err != nil {
			return searchErrMsg{err: err}
		}
		return searchResultsMsg{query: query, hits: hits}
	}
}

func (m searchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("kgraph search") + "\n\n")
	b.WriteString(m.input.View() + "\n\n")

	switch {
	case m.searching:
		b.WriteString(m.spin.View() + " searching...\n")
	case m.errText != "":
		b.WriteString(errorStyle.Render("error: "+m.errText) + "\n")
	case m.query != "":
		if len(m.hits) == 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("No results for %q.", m.query)) + "\n")
		} else {
			b.WriteString(promptStyle.Render(fmt.Sprintf("Results for %q:", m.query)) + "\n")
			for i, h := range m.hits {
				b.WriteString(fmt.Sprintf("%d. %s %s\n   %s\n",
					i+1,
					selectedStyle.Render(h.Code),
					dimStyle.Render(fmt.Sprintf("(Score: %.4f)", h.Score)),
					h.Description))
			}
		}
	default:
		b.WriteString(dimStyle.Render("Type a query and press enter.") + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("enter on an empty line or ctrl+c to exit") + "\n")
	return b.String()
}
