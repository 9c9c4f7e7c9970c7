// Command monitor is a terminal viewer for the simulation: it long-polls
// the HTTP read/write edge (internal/api) and renders the palette-indexed
// grid as colored terminal cells, following
// _examples/GoCodeAlone-EvoSim's cli.go/viewport.go/view_manager.go
// approach of rendering shared world state through a bubbletea program,
// adapted from the teacher's biome/entity grid to this system's
// animal/water/grass cell grid.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mapResponse struct {
	VersionID             string   `json:"version_id"`
	Size                  int      `json:"size"`
	Colors                [][3]int `json:"colors"`
	AvailableColorIndexes []int    `json:"available_color_indexes"`
	CellColorIndexes      []int    `json:"cell_color_indexes"`
}

type callerSnapshot struct {
	ReadHoldAvgMillis  float64 `json:"read_hold_avg_ms"`
	WriteHoldAvgMillis float64 `json:"write_hold_avg_ms"`
}

type statsResponse struct {
	ReadWaitAvgMillis  float64                   `json:"read_wait_avg_ms"`
	WriteWaitAvgMillis float64                   `json:"write_wait_avg_ms"`
	ByCaller           map[string]callerSnapshot `json:"by_caller"`
}

// client talks to cmd/server's HTTP API.
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string) *client {
	return &client{baseURL: baseURL, http: &http.Client{Timeout: 65 * time.Second}}
}

func (c *client) fetchMap(lastVersionID string) (mapResponse, error) {
	url := c.baseURL + "/api/map"
	if lastVersionID != "" {
		url += "?last_version_id=" + lastVersionID
	}
	var out mapResponse
	resp, err := c.http.Get(url)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("GET /api/map: status %d", resp.StatusCode)
	}
	return out, json.NewDecoder(resp.Body).Decode(&out)
}

func (c *client) fetchStats() (statsResponse, error) {
	var out statsResponse
	resp, err := c.http.Get(c.baseURL + "/api/stats")
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("GET /api/stats: status %d", resp.StatusCode)
	}
	return out, json.NewDecoder(resp.Body).Decode(&out)
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	gridStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Background(lipgloss.Color("52")).
			Padding(0, 1).
			Bold(true)
)

var keys = struct {
	quit key.Binding
	view key.Binding
	left key.Binding
	right key.Binding
	up key.Binding
	down key.Binding
}{
	quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	view: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "toggle stats")),
	left: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan left")),
	right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pan right")),
	up: key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "pan up")),
	down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "pan down")),
}

type mapMsg mapResponse
type statsMsg statsResponse
type errMsg struct{ err error }

// model is the bubbletea program state: the latest fetched map snapshot
// plus viewport panning, following the teacher's CLIModel shape.
type model struct {
	client *client

	lastVersionID string
	size          int
	colors        [][3]int
	cellColors    []int

	showStats bool
	stats     statsResponse

	viewportX, viewportY int
	lastErr              error
}

func newModel(c *client) model {
	return model{client: c}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(pollMap(m.client, ""), pollStats(m.client))
}

func pollMap(c *client, lastVersionID string) tea.Cmd {
	return func() tea.Msg {
		resp, err := c.fetchMap(lastVersionID)
		if err != nil {
			return errMsg{err}
		}
		return mapMsg(resp)
	}
}

func pollStats(c *client) tea.Cmd {
	return func() tea.Msg {
		resp, err := c.fetchStats()
		if err != nil {
			return errMsg{err}
		}
		return statsMsg(resp)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			return m, tea.Quit
		case key.Matches(msg, keys.view):
			m.showStats = !m.showStats
			if m.showStats {
				return m, pollStats(m.client)
			}
		case key.Matches(msg, keys.left):
			if m.viewportX > 0 {
				m.viewportX--
			}
		case key.Matches(msg, keys.right):
			if m.viewportX < m.size-1 {
				m.viewportX++
			}
		case key.Matches(msg, keys.up):
			if m.viewportY > 0 {
				m.viewportY--
			}
		case key.Matches(msg, keys.down):
			if m.viewportY < m.size-1 {
				m.viewportY++
			}
		}
		return m, nil

	case mapMsg:
		m.lastErr = nil
		m.lastVersionID = msg.VersionID
		m.size = msg.Size
		m.colors = msg.Colors
		m.cellColors = msg.CellColorIndexes
		return m, pollMap(m.client, m.lastVersionID)

	case statsMsg:
		m.stats = statsResponse(msg)
		if m.showStats {
			return m, tea.Tick(time.Second, func(time.Time) tea.Msg {
				return pollStatsTickMsg{}
			})
		}
		return m, nil

	case pollStatsTickMsg:
		if m.showStats {
			return m, pollStats(m.client)
		}
		return m, nil

	case errMsg:
		m.lastErr = msg.err
		return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
			return retryMsg{}
		})

	case retryMsg:
		return m, pollMap(m.client, m.lastVersionID)
	}
	return m, nil
}

type pollStatsTickMsg struct{}
type retryMsg struct{}

func (m model) View() string {
	header := titleStyle.Render(fmt.Sprintf("nature-pixel monitor — version %s", m.lastVersionID))
	if m.lastErr != nil {
		header = lipgloss.JoinHorizontal(lipgloss.Left, header, " ", errorStyle.Render(m.lastErr.Error()))
	}

	var body string
	if m.showStats {
		body = m.statsView()
	} else {
		body = m.gridView()
	}

	footer := infoStyle.Render("q quit · v toggle stats · arrows/hjkl pan")
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

const viewportSpan = 60

func (m model) gridView() string {
	if m.size == 0 {
		return "waiting for first snapshot..."
	}

	startX := m.viewportX
	startY := m.viewportY
	endX := startX + viewportSpan
	if endX > m.size {
		endX = m.size
	}
	endY := startY + viewportSpan/2
	if endY > m.size {
		endY = m.size
	}

	var b strings.Builder
	for y := startY; y < endY; y++ {
		for x := startX; x < endX; x++ {
			idx := y*m.size + x
			colorIdx := m.cellColors[idx]
			rgb := m.colors[colorIdx]
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])))
			b.WriteString(style.Render("██"))
		}
		b.WriteString("\n")
	}
	return gridStyle.Render(b.String())
}

func (m model) statsView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Lock telemetry") + "\n\n")
	b.WriteString(fmt.Sprintf("read wait avg:  %.3f ms\n", m.stats.ReadWaitAvgMillis))
	b.WriteString(fmt.Sprintf("write wait avg: %.3f ms\n\n", m.stats.WriteWaitAvgMillis))
	for name, s := range m.stats.ByCaller {
		b.WriteString(fmt.Sprintf("%-16s read hold %.3f ms  write hold %.3f ms\n",
			name, s.ReadHoldAvgMillis, s.WriteHoldAvgMillis))
	}
	return gridStyle.Render(b.String())
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "base URL of the running server")
	flag.Parse()

	c := newClient(*addr)
	p := tea.NewProgram(newModel(c))
	if _, err := p.Run(); err != nil {
		log.Fatalf("monitor exited: %v", err)
	}
}
