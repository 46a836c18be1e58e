package web

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/knapviz/internal/config"
	"github.com/san-kum/knapviz/internal/grid"
	"github.com/san-kum/knapviz/internal/knapsack"
)

const (
	writeWait     = 10 * time.Second
	defaultWidth  = 800
	defaultHeight = 600
)

// client is one page connection. It owns the session that animates into the
// page's grid container.
type client struct {
	conn     *websocket.Conn
	logger   *slog.Logger
	viewport *grid.Viewport
	delay    *knapsack.Delay
	session  *knapsack.Session

	writeMu sync.Mutex
}

func newClient(conn *websocket.Conn, cfg *config.Config, logger *slog.Logger) *client {
	c := &client{
		conn:     conn,
		logger:   logger.With("remote", conn.RemoteAddr().String()),
		viewport: grid.NewViewport(defaultWidth, defaultHeight),
		delay:    knapsack.NewDelay(cfg.Delay()),
	}
	c.session = knapsack.NewSession(knapsack.SessionConfig{
		Container:   c.viewport,
		Stylesheet:  cfg.Stylesheet,
		GridOptions: []grid.Option{grid.WithGap(cfg.Gap)},
		Pacer:       c.delay,
		Highlight:   true,
		OnGrid:      c.bindGrid,
		OnStatus:    c.sendStatus,
		OnFinish:    c.finished,
		Logger:      c.logger,
	})
	return c
}

func (c *client) send(v any) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(v); err != nil {
		c.logger.Debug("websocket write failed", "err", err)
	}
}

func (c *client) sendError(err error) {
	c.send(errorMessage{Type: "error", Message: err.Error()})
}

func (c *client) sendStatus(s string) {
	c.send(statusMessage{Type: "status", Text: s})
}

func (c *client) sendConfig(cfg *config.Config) {
	c.send(configMessage{
		Type:     "config",
		Capacity: cfg.Capacity,
		Weights:  cfg.Weights,
		Prices:   cfg.Prices,
		DelayMS:  cfg.DelayMS,
	})
}

func (c *client) bindGrid(g *grid.Grid) {
	c.send(gridMessage{Type: "grid", Rows: g.Rows, Columns: g.Columns, Stylesheet: g.Stylesheet})
	g.SetListener(c)
}

func (c *client) CellChanged(cell grid.Cell) {
	c.send(newCellMessage(cell))
}

func (c *client) LayoutChanged(l grid.Layout) {
	c.send(newLayoutMessage(l))
}

func (c *client) finished(a *knapsack.Animator, err error) {
	switch {
	case err == nil:
		answer, _ := a.Answer()
		selection := a.Selection()
		if selection == nil {
			selection = []int{}
		}
		c.send(doneMessage{Type: "done", Answer: answer, Selection: selection})
	case errors.Is(err, context.Canceled):
	default:
		c.sendError(err)
	}
}

func (c *client) readLoop() {
	for {
		var msg inMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", "err", err)
			}
			return
		}
		c.handle(msg)
	}
}

func (c *client) handle(msg inMessage) {
	switch msg.Type {
	case "resize":
		c.viewport.Resize(msg.Width, msg.Height)
	case "start":
		c.startFromPage(msg)
	case "delay":
		ms, err := config.ParseDelay(msg.Delay)
		if err != nil {
			c.sendError(err)
			return
		}
		c.delay.Set(time.Duration(ms) * time.Millisecond)
	case "cancel":
		c.session.Cancel()
	default:
		c.logger.Warn("unknown websocket message", "type", msg.Type)
	}
}

// Popup texts for malformed lists.
const (
	weightsFormat = "Write weights as a list of positive integers, separated by commas."
	pricesFormat  = "Write prices as a list of positive integers, separated by commas."
)

func (c *client) startFromPage(msg inMessage) {
	capacity, err := config.ParseCapacity(msg.Capacity)
	if err != nil {
		c.sendError(err)
		return
	}
	weights, err := config.ParseList("weights", msg.Weights)
	if err != nil {
		c.send(errorMessage{Type: "error", Message: weightsFormat})
		return
	}
	prices, err := config.ParseList("prices", msg.Prices)
	if err != nil {
		c.send(errorMessage{Type: "error", Message: pricesFormat})
		return
	}
	ms, err := config.ParseDelay(msg.Delay)
	if err != nil {
		c.sendError(err)
		return
	}
	c.delay.Set(time.Duration(ms) * time.Millisecond)
	c.start(capacity, weights, prices)
}

func (c *client) start(capacity int, weights, prices []int) {
	if _, err := c.session.Start(capacity, weights, prices); err != nil {
		c.logger.Info("run rejected", "err", err)
		c.sendError(err)
	}
}

// reload pushes a new configuration to the page and restarts its run.
func (c *client) reload(cfg *config.Config) {
	c.delay.Set(cfg.Delay())
	c.sendConfig(cfg)
	c.start(cfg.Capacity, cfg.Weights, cfg.Prices)
}

func (c *client) close() {
	c.session.Close()
}
