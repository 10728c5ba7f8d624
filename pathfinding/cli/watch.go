package main

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"gridpath-server/instance"
	"gridpath-server/pathfinding"
	"gridpath-server/render"
)

func watch(model *instance.MapModel, opts []pathfinding.Option, every time.Duration, limit int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	return animate(screen, model, opts, every, limit)
}

// animate redraws the frame after every tick until q or Esc. With limit > 0
// ticking stops after limit ticks and the last frame stays up.
func animate(screen tcell.Screen, model *instance.MapModel, opts []pathfinding.Option, every time.Duration, limit int) error {
	res, err := model.FindPath(opts...)
	if err != nil {
		return err
	}
	tick := 0
	draw := func() {
		screen.Clear()
		render.Draw(screen, model.Frame(res.Path))
		render.DrawStatus(screen, model.Grid().Height(), summary(tick, model.Goal(), res))
		screen.Show()
	}
	draw()

	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
				draw()
			}
		case <-ticker.C:
			if limit > 0 && tick >= limit {
				continue
			}
			tick++
			before := model.Goal()
			if model.Tick() != before {
				if res, err = model.FindPath(opts...); err != nil {
					return err
				}
			}
			draw()
		}
	}
}
