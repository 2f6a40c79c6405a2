// Package home is the main menu. It owns the player's tracker for the
// life of the app and starts every other screen.
package home

import (
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizadv/quizadv/internal/mcq"
	"github.com/quizadv/quizadv/internal/router"
	"github.com/quizadv/quizadv/internal/screen"
	"github.com/quizadv/quizadv/internal/screens/graph"
	"github.com/quizadv/quizadv/internal/screens/history"
	"github.com/quizadv/quizadv/internal/screens/quiz"
	"github.com/quizadv/quizadv/internal/screens/setup"
	"github.com/quizadv/quizadv/internal/screens/summary"
	"github.com/quizadv/quizadv/internal/session"
	"github.com/quizadv/quizadv/internal/store"
	"github.com/quizadv/quizadv/internal/tracker"
	"github.com/quizadv/quizadv/internal/ui/components"
	"github.com/quizadv/quizadv/internal/ui/layout"
	"github.com/quizadv/quizadv/internal/ui/theme"
)

const titleFull = ` ██████╗ ██╗   ██╗██╗███████╗
██╔═══██╗██║   ██║██║╚══███╔╝
██║   ██║██║   ██║██║  ███╔╝
██║▄▄ ██║██║   ██║██║ ███╔╝
╚██████╔╝╚██████╔╝██║███████╗
 ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝`

const titleCompact = "Q · U · I · Z"

// Config wires the menu's collaborators. Generator and Events may be
// nil; the menu items that need them are then disabled.
type Config struct {
	Generator      mcq.Generator
	Recommender    session.Recommender
	Events         store.EventRepo
	Logger         *slog.Logger
	SessionOptions []session.Option
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	cfg     Config
	tracker *tracker.Tracker
	results []*session.Result
	menu    components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)

// New creates the menu for player.
func New(player string, cfg Config) *HomeScreen {
	h := &HomeScreen{
		cfg:     cfg,
		tracker: tracker.New(player),
	}

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "START NEW SESSION", Disabled: cfg.Generator == nil, Action: func() tea.Cmd {
			return push(setup.New(h.startQuiz))
		}},
		{Label: "PERFORMANCE SUMMARY", Action: func() tea.Cmd {
			return push(summary.NewOverall(h.tracker.Summary(), len(h.results)))
		}},
		{Label: "PERFORMANCE GRAPH", Action: func() tea.Cmd {
			return push(graph.New(h.tracker.Series()))
		}},
		{Label: "SESSION HISTORY", Disabled: cfg.Events == nil, Action: func() tea.Cmd {
			return push(history.New(cfg.Events))
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	})
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

// startQuiz builds the quiz for a completed setup.
func (h *HomeScreen) startQuiz(st session.Setup) screen.Screen {
	var opts []session.Option
	if h.cfg.Recommender != nil {
		opts = append(opts, session.WithRecommender(h.cfg.Recommender))
	}
	if h.cfg.Events != nil {
		opts = append(opts, session.WithEventSink(h.cfg.Events))
	}
	if h.cfg.Logger != nil {
		opts = append(opts, session.WithLogger(h.cfg.Logger))
	}
	opts = append(opts, h.cfg.SessionOptions...)

	return quiz.New(st, quiz.Config{
		Generator: h.cfg.Generator,
		Tracker:   h.tracker,
		Options:   opts,
		OnFinish:  h.record,
	})
}

func (h *HomeScreen) record(res *session.Result) {
	h.results = append(h.results, res)
}

// Tracker returns the player's tracker.
func (h *HomeScreen) Tracker() *tracker.Tracker {
	return h.tracker
}

// Results returns the sessions finished so far, oldest first.
func (h *HomeScreen) Results() []*session.Result {
	return h.results
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Status() string {
	return fmt.Sprintf("%s  ★ %d  ", h.tracker.Name, h.tracker.Streak())
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer
	compact := layout.IsCompact(width, height+layout.HeaderHeight+layout.FooterHeight)
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	sections = append(sections, layout.Centered(theme.Body.Render(
		fmt.Sprintf("Hello, %s! Let's begin your learning journey.", h.tracker.Name)), cw))
	sections = append(sections, components.StatsBar(h.renderStats(compact), cw))
	if h.cfg.Generator == nil {
		sections = append(sections, layout.Centered(lipgloss.NewStyle().Foreground(theme.Accent).
			Render("⚠ Set an LLM API key to start playing (see quizadv --help)"), cw))
	}
	sections = append(sections, components.ArcadeMenu(h.menu, cw, compact))

	sep := "\n\n"
	if compact {
		sep = "\n"
	}
	return components.CabinetFrame(strings.Join(sections, sep), width, height)
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	if compact {
		return layout.Centered(style.Render(titleCompact), cw)
	}
	return layout.Centered(style.Render(titleFull), cw)
}

func (h *HomeScreen) renderStats(compact bool) string {
	sum := h.tracker.Summary()
	attempts := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	accuracy := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	next := lipgloss.NewStyle().Foreground(theme.ForTier(sum.RecommendedLevel)).Bold(true)

	if compact {
		return fmt.Sprintf("%s %s %s",
			attempts.Render(fmt.Sprintf("Q%d", sum.TotalAttempts)),
			accuracy.Render(fmt.Sprintf("%.0f%%", sum.AccuracyPercent())),
			next.Render("→"+sum.RecommendedLevel.Title()))
	}
	return fmt.Sprintf("%s  %s  %s",
		attempts.Render(fmt.Sprintf("%d QUESTIONS", sum.TotalAttempts)),
		accuracy.Render(fmt.Sprintf("%.0f%% ACCURACY", sum.AccuracyPercent())),
		next.Render("NEXT: "+strings.ToUpper(sum.RecommendedLevel.Title())))
}
