package colors

import (
	"context"
	"strconv"
	"time"

	"github.com/harrisonrobin/habita/pkg/store"
)

const (
	storeKey      = "calendar_colors"
	// Google Calendar event colors run from 1 to 11.
	paletteSize   = 11
	// NoAgendaColor is graphite, used when a task has no agenda.
	NoAgendaColor = "8"
)

type AgendaColor struct {
	ColorID  string    `json:"color_id"`
	LastUsed time.Time `json:"last_used"`
}

// ColorCache hands each agenda its own event color and recycles the least
// recently used one once the palette is exhausted.
type ColorCache struct {
	Agendas map[string]*AgendaColor
	store   store.Store
	now     func() time.Time
	dirty   bool
}

func NewColorCache(ctx context.Context, st store.Store, now func() time.Time) (*ColorCache, error) {
	if now == nil {
		now = time.Now
	}
	cache := &ColorCache{
		Agendas: make(map[string]*AgendaColor),
		store:   st,
		now:     now,
	}
	if _, err := store.GetJSON(ctx, st, storeKey, &cache.Agendas); err != nil {
		return nil, err
	}
	if cache.Agendas == nil {
		cache.Agendas = make(map[string]*AgendaColor)
	}
	return cache, nil
}

func (c *ColorCache) Save(ctx context.Context) error {
	if !c.dirty {
		return nil
	}
	if err := store.SetJSON(ctx, c.store, storeKey, c.Agendas); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// GetColorID returns the color for agendaID, assigning one on first use.
func (c *ColorCache) GetColorID(agendaID string) string {
	if agendaID == "" {
		return NoAgendaColor
	}

	if state, exists := c.Agendas[agendaID]; exists {
		state.LastUsed = c.now()
		c.dirty = true
		return state.ColorID
	}
	return c.assignColor(agendaID)
}

func (c *ColorCache) assignColor(agendaID string) string {
	used := make(map[string]bool)
	for _, s := range c.Agendas {
		used[s.ColorID] = true
	}

	for i := 1; i <= paletteSize; i++ {
		id := strconv.Itoa(i)
		if !used[id] {
			c.Agendas[agendaID] = &AgendaColor{ColorID: id, LastUsed: c.now()}
			c.dirty = true
			return id
		}
	}

	// palette full: take over the least recently used agenda's color
	var oldest string
	for id, s := range c.Agendas {
		if oldest == "" || s.LastUsed.Before(c.Agendas[oldest].LastUsed) {
			oldest = id
		}
	}
	recycled := c.Agendas[oldest].ColorID
	delete(c.Agendas, oldest)
	c.Agendas[agendaID] = &AgendaColor{ColorID: recycled, LastUsed: c.now()}
	c.dirty = true
	return recycled
}
