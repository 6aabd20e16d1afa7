package monitor

import tea "github.com/charmbracelet/bubbletea"

// ViewMode defines the current display mode of the dashboard.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
)

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyRefresh     = "r"
	KeyAddHosts    = "a"
	KeySettings    = "s"
	KeyDelete      = "d"
	KeyReachable   = "f"
	KeySelectPrev  = "up"
	KeySelectPrevK = "k"
	KeySelectNext  = "down"
	KeySelectNextJ = "j"
	KeySelectFirst = "home"
	KeySelectLast  = "end"
	KeyExpand      = "enter"
	KeyCollapse    = "esc"
	KeyToggleHelp  = "?"
)

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key == KeyCollapse {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		m.poller.Stop()
		return true, tea.Quit

	case KeyRefresh:
		// A busy control ignores the key.
		cmd, _ := m.RefreshNow()
		return true, cmd
	}

	if m.viewMode == ViewDetail {
		return m.handleDetailKey(key)
	}
	return m.handleListKey(key)
}

func (m *Model) handleListKey(key string) (bool, tea.Cmd) {
	switch key {
	case KeySelectPrev, KeySelectPrevK:
		m.list.Move(-1)
		return true, nil

	case KeySelectNext, KeySelectNextJ:
		m.list.Move(1)
		return true, nil

	case KeySelectFirst:
		m.list.Select(0)
		return true, nil

	case KeySelectLast:
		m.list.Select(len(m.list.Rows()) - 1)
		return true, nil

	case KeyExpand:
		if address := m.list.SelectedAddress(); address != "" {
			return true, m.openDetail(address)
		}
		return true, nil

	case KeyReachable:
		m.reachableOnly = !m.reachableOnly
		return true, m.fetchHostsCmd(Cycle{})

	case KeyAddHosts:
		if m.poller.Busy(ControlAddHosts) {
			return true, nil
		}
		m.addValues = &AddHostsValues{}
		return true, m.openForm(formAddHosts, NewAddHostsForm(m.addValues))

	case KeySettings:
		if m.poller.Busy(ControlSettings) {
			return true, nil
		}
		m.settingsValues = &SettingsValues{}
		return true, m.openForm(formSettings, NewSettingsForm(m.settingsValues))
	}
	return false, nil
}

func (m *Model) handleDetailKey(key string) (bool, tea.Cmd) {
	switch key {
	case KeyCollapse:
		return true, m.openList()

	case KeyDelete:
		if !m.DeleteEnabled() {
			return true, nil
		}
		confirmed := false
		m.deleteConfirmed = &confirmed
		return true, m.openForm(formDelete, NewDeleteConfirm(m.detail.Address, m.deleteConfirmed))
	}
	return false, nil
}
