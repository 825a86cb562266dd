// Package notes implements the interactive corpus browser: a debounced
// search input over the content index, a pin-aware file list, a hashtag
// panel, and wikilink navigation.
package notes

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quillnotes/quill/internal/index"
	"github.com/quillnotes/quill/internal/links"
	"github.com/quillnotes/quill/internal/note"
	"github.com/quillnotes/quill/internal/parser"
	"github.com/quillnotes/quill/internal/query"
	"github.com/quillnotes/quill/internal/state"
	"github.com/quillnotes/quill/internal/tags"
)

type queryResultMsg query.Result

type scanDoneMsg struct{}

type corpusChangedMsg struct{}

type editorFinishedMsg struct{ err error }

type scanFailedMsg struct{ err error }

type Model struct {
	state       *state.State
	coordinator *query.Coordinator
	changes     chan struct{}

	input textinput.Model
	list  list.Model
	keys  *listKeyMap

	tagCounts   []tags.TagCount
	tagCursor   int
	showTags    bool
	showPreview bool
	preview     string

	width  int
	height int
	status string
}

func NewModel(s *state.State) Model {
	input := textinput.New()
	input.Placeholder = "Search notes or #hashtag..."
	input.Prompt = "> "
	input.Focus()

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedItemStyle
	delegate.Styles.SelectedDesc = selectedItemStyle

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Notes"
	l.Styles.Title = titleStyle
	l.SetShowTitle(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false) // the coordinator owns filtering
	l.SetShowHelp(true)

	changes := make(chan struct{}, 1)
	coordinator := query.NewCoordinator(query.Options{
		Snapshot: s.Index.Snapshot,
		Pinned:   s.Pinned,
		SortKey:  s.SortKey,
	})

	return Model{
		state:       s,
		coordinator: coordinator,
		changes:     changes,
		input:       input,
		list:        l,
		keys:        newListKeyMap(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.startScanCmd(),
		m.waitForResult(),
		m.waitForChange(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		listWidth := msg.Width - h
		if m.showTags || m.showPreview {
			listWidth = listWidth * 2 / 3
		}
		m.list.SetSize(listWidth, msg.Height-v-3)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case queryResultMsg:
		m.setResults(query.Result(msg))
		return m, m.waitForResult()

	case scanDoneMsg:
		m.status = fmt.Sprintf("indexed %d notes", m.state.Index.Stats().Entries)
		m.refresh()
		return m, nil

	case scanFailedMsg:
		m.status = msg.err.Error()
		return m, nil

	case corpusChangedMsg:
		m.refresh()
		return m, m.waitForChange()

	case editorFinishedMsg:
		if msg.err != nil {
			m.status = "editor error: " + msg.err.Error()
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.quit):
		m.coordinator.Close()
		return m, tea.Quit

	case key.Matches(msg, keys.openNote):
		if item, ok := m.list.SelectedItem().(ListItem); ok {
			return m, m.openEditor(item.Path())
		}
		return m, nil

	case key.Matches(msg, keys.togglePin):
		if item, ok := m.list.SelectedItem().(ListItem); ok {
			pinned, err := m.state.Config.TogglePin(m.state.NotesDir, item.ref.Filename())
			if err != nil {
				m.status = err.Error()
				return m, nil
			}
			if err := m.state.Config.Save(); err != nil {
				m.status = "failed to save pins: " + err.Error()
				return m, nil
			}
			if pinned {
				m.status = "Pinned " + item.ref.Filename()
			} else {
				m.status = "Unpinned " + item.ref.Filename()
			}
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, keys.toggleTags):
		m.showTags = !m.showTags
		if m.showTags {
			m.showPreview = false
			m.tagCursor = 0
			m.tagCounts = tags.Refresh(m.state.Index.Snapshot(), nil)
		}
		return m, nil

	case key.Matches(msg, keys.nextTag):
		if m.showTags && len(m.tagCounts) > 0 {
			tag := "#" + m.tagCounts[m.tagCursor%len(m.tagCounts)].Tag
			m.tagCursor++
			m.input.SetValue(tag)
			m.coordinator.SetQuery(tag)
		}
		return m, nil

	case key.Matches(msg, keys.togglePreview):
		m.showPreview = !m.showPreview
		if m.showPreview {
			m.showTags = false
			m.renderPreview()
		}
		return m, nil

	case key.Matches(msg, keys.followLink):
		return m, m.followFirstLink()

	case key.Matches(msg, keys.yankPath):
		if item, ok := m.list.SelectedItem().(ListItem); ok {
			if err := clipboard.WriteAll(item.Path()); err != nil {
				m.status = "clipboard unavailable"
			} else {
				m.status = "Copied path"
			}
		}
		return m, nil

	case key.Matches(msg, keys.clearQuery):
		m.input.SetValue("")
		m.coordinator.SetQuery("")
		return m, nil
	}

	before := m.input.Value()
	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.coordinator.SetQuery(m.input.Value())
		return m, inputCmd
	}

	var listCmd tea.Cmd
	m.list, listCmd = m.list.Update(msg)
	if m.showPreview {
		m.renderPreview()
	}
	return m, tea.Batch(inputCmd, listCmd)
}

func (m Model) View() string {
	var sections []string
	sections = append(sections, inputStyle.Render(m.input.View()))

	main := m.list.View()
	switch {
	case m.showTags:
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, tagPanelStyle.Render(m.tagPanel()))
	case m.showPreview:
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, previewStyle.Render(m.preview))
	}
	sections = append(sections, main)

	if m.status != "" {
		sections = append(sections, statusStyle(m.status))
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// refresh re-evaluates the current query and the tag panel against the
// latest snapshot.
func (m *Model) refresh() {
	m.coordinator.SetQuery(m.input.Value())
	if m.showTags {
		m.tagCounts = tags.Refresh(m.state.Index.Snapshot(), nil)
	}
}

func (m *Model) setResults(res query.Result) {
	pinned := make(map[string]struct{})
	for _, name := range m.state.Pinned() {
		pinned[name] = struct{}{}
	}

	snap := m.state.Index.Snapshot()
	items := make([]list.Item, 0, len(res.Refs))
	for _, ref := range res.Refs {
		_, isPinned := pinned[ref.Filename()]
		items = append(items, newListItem(ref, m.state.NotesDir, isPinned, entryTags(snap, ref)))
	}
	m.list.SetItems(items)

	if m.showPreview {
		m.renderPreview()
	}
}

func entryTags(snap *index.Snapshot, ref note.Ref) []string {
	entry, ok := snap.Lookup(ref.Path)
	if !ok {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, tag := range parser.ExtractHashtags(entry.Content) {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func (m *Model) renderPreview() {
	item, ok := m.list.SelectedItem().(ListItem)
	if !ok {
		m.preview = ""
		return
	}
	m.preview = renderMarkdownPreview(item.Path(), m.width/3)
}

func (m Model) tagPanel() string {
	if len(m.tagCounts) == 0 {
		return "No hashtags found"
	}

	lines := make([]string, 0, len(m.tagCounts))
	for _, tc := range m.tagCounts {
		lines = append(lines, fmt.Sprintf("#%s (%d)", tc.Tag, tc.Count))
	}
	return strings.Join(lines, "\n")
}

// followFirstLink resolves the first wikilink in the selected note, opening
// the target or creating it first when missing.
func (m *Model) followFirstLink() tea.Cmd {
	item, ok := m.list.SelectedItem().(ListItem)
	if !ok {
		return nil
	}

	content, err := m.state.Handler.ReadText(item.Path())
	if err != nil {
		m.status = "failed to read note"
		return nil
	}

	wikis := parser.ExtractWikilinks(content)
	if len(wikis) == 0 {
		m.status = "no wikilinks in note"
		return nil
	}

	res := links.Resolve(wikis[0].Raw, m.state.Index.Snapshot().Refs())
	if res.Existing {
		if res.Ambiguous {
			m.status = "Multiple case variants, opening " + res.Ref.Filename()
		}
		return m.openEditor(res.Ref.Path)
	}
	if res.CreateName == "" {
		return nil
	}

	target := filepath.Join(m.state.NotesDir, res.CreateName)
	if err := m.state.Handler.CreateEmpty(target); err != nil {
		m.status = "failed to create " + res.CreateName
		return nil
	}
	if ref, err := m.state.Handler.Stat(target); err == nil {
		_ = m.state.Index.UpdateOne(ref)
	}
	m.status = "Created " + res.CreateName
	return m.openEditor(target)
}

func (m Model) openEditor(path string) tea.Cmd {
	editor := m.state.Config.Editor
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.Command(editor, path)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

func (m Model) startScanCmd() tea.Cmd {
	return func() tea.Msg {
		done, err := m.state.StartScan(context.Background())
		if err != nil {
			return scanFailedMsg{err: err}
		}
		<-done
		return scanDoneMsg{}
	}
}

func (m Model) waitForResult() tea.Cmd {
	return func() tea.Msg {
		res, ok := <-m.coordinator.Results()
		if !ok {
			return nil
		}
		return queryResultMsg(res)
	}
}

func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return corpusChangedMsg{}
	}
}

// Run starts the browser, including the notes watcher, and blocks until
// the user quits.
func Run(s *state.State) error {
	model := NewModel(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher, err := state.NewNotesWatcher(s, func() {
		select {
		case model.changes <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("failed to watch notes directory: %w", err)
	}
	defer watcher.Close()
	watcher.Start(ctx)

	model.coordinator.SetQuery("")

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running notes browser: %w", err)
	}
	return nil
}
