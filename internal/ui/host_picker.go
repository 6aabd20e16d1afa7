package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/koltont40/networkmonitoring/internal/api"
	"github.com/koltont40/networkmonitoring/internal/errors"
)

// hostItem implements list.Item for the Bubbles list component.
type hostItem struct {
	host api.HostSnapshot
}

func (i hostItem) Title() string {
	symbol := lipgloss.NewStyle().Foreground(HostStateColor(i.host.State)).Render(HostStateSymbol(i.host.State))
	if i.host.Name != "" && i.host.Name != i.host.Address {
		return fmt.Sprintf("%s %s (%s)", symbol, i.host.Name, i.host.Address)
	}
	return symbol + " " + i.host.Address
}

func (i hostItem) Description() string {
	parts := []string{string(i.host.State)}
	if i.host.SNMPSysName != nil && *i.host.SNMPSysName != "" {
		parts = append(parts, *i.host.SNMPSysName)
	}
	if len(i.host.Notes) > 0 {
		parts = append(parts, strings.Join(i.host.Notes, "; "))
	}
	return strings.Join(parts, " | ")
}

func (i hostItem) FilterValue() string {
	values := []string{i.host.Address, i.host.Name, string(i.host.State)}
	if i.host.SNMPSysName != nil {
		values = append(values, *i.host.SNMPSysName)
	}
	return strings.Join(values, " ")
}

// HostPickerModel is a Bubble Tea model for selecting a host.
type HostPickerModel struct {
	list     list.Model
	hosts    []api.HostSnapshot
	selected *api.HostSnapshot
	quitting bool
	width    int
	height   int
}

type hostPickerKeyMap struct {
	Enter key.Binding
	Quit  key.Binding
}

var hostPickerKeys = hostPickerKeyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "cancel"),
	),
}

// NewHostPickerModel creates a new host picker model.
func NewHostPickerModel(hosts []api.HostSnapshot) HostPickerModel {
	items := make([]list.Item, len(hosts))
	for i, h := range hosts {
		items[i] = hostItem{host: h}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorPrimary).
		BorderForeground(ColorSecondary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorMuted)

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select a host"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 0, 1, 0)
	l.Styles.HelpStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	return HostPickerModel{
		list:   l,
		hosts:  hosts,
		width:  80,
		height: 15,
	}
}

// Init implements tea.Model.
func (m HostPickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m HostPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// While filtering, keys belong to the filter input.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, hostPickerKeys.Enter):
			if item, ok := m.list.SelectedItem().(hostItem); ok {
				m.selected = &item.host
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, hostPickerKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m HostPickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Selected returns the selected host, or nil if cancelled.
func (m HostPickerModel) Selected() *api.HostSnapshot {
	return m.selected
}

// PickHost displays an interactive host picker and returns the selected host.
// Returns nil if the user cancels (ESC/q/Ctrl+C).
func PickHost(hosts []api.HostSnapshot) (*api.HostSnapshot, error) {
	return PickHostWithOutput(hosts, os.Stdout, os.Stdin)
}

// PickHostWithOutput displays the host picker using custom I/O.
func PickHostWithOutput(hosts []api.HostSnapshot, output io.Writer, input io.Reader) (*api.HostSnapshot, error) {
	if len(hosts) == 0 {
		return nil, errors.New(errors.ErrInput, "No hosts to pick from", "Add hosts with 'netmon hosts add <range>'.")
	}

	if len(hosts) == 1 {
		return &hosts[0], nil
	}

	p := tea.NewProgram(
		NewHostPickerModel(hosts),
		tea.WithOutput(output),
		tea.WithInput(input),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrInput, "Host picker failed", "Pass the host address as an argument instead.")
	}

	if m, ok := finalModel.(HostPickerModel); ok {
		return m.Selected(), nil
	}
	return nil, nil
}
