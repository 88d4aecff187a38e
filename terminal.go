package canvasform

import (
	"context"
	"errors"
	"io"
)

// display is the part of Screen the event loop needs.
type display interface {
	Flush() error
	Resize(width, height int)
	ResizeChan() <-chan TermSize
}

// canceler is implemented by readers whose blocked Read can be interrupted,
// such as github.com/muesli/cancelreader.
type canceler interface {
	Cancel() bool
}

// RunTerminal drives form from terminal input until in is exhausted, ctx is
// done, or the user quits with Escape or Ctrl-C. The form must draw on the
// screen's buffer; the screen should already be in raw mode.
//
// Input is read on its own goroutine, but the form is only ever touched
// from the loop, one event at a time, in arrival order.
//
// If in has a Cancel() bool method it is cancelled on return and RunTerminal
// waits for the reading goroutine to stop, so no later input is consumed.
// Any other reader is left with a goroutine blocked in Read, which takes
// the next chunk of input once it arrives.
func RunTerminal(ctx context.Context, form *Form, screen *Screen, in io.Reader, origin Point) error {
	return runLoop(ctx, form, screen, in, origin)
}

func runLoop(ctx context.Context, form *Form, d display, in io.Reader, origin Point) error {
	ctx, cancel := context.WithCancel(ctx)
	readDone := make(chan struct{})
	defer func() {
		cancel()
		if c, ok := in.(canceler); ok && c.Cancel() {
			<-readDone
		}
	}()

	events := make(chan Event)
	readErr := make(chan error, 1)
	go func() {
		defer close(readDone)
		dec := NewInputDecoder(in)
		for {
			ev, err := dec.Next()
			if err != nil {
				readErr <- err
				return
			}
			if ev.Kind == EventNone {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	form.LayoutAndRender(origin.X, origin.Y)
	if err := d.Flush(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err

		case size := <-d.ResizeChan():
			form.log.Debug().Int("width", size.Width).Int("height", size.Height).Msg("resize")
			d.Resize(size.Width, size.Height)
			form.LayoutAndRender(origin.X, origin.Y)

		case ev := <-events:
			switch ev.Kind {
			case EventQuit:
				return nil
			case EventKey:
				if ev.Key == KeyEscape {
					return nil
				}
				form.HandleKeyboard(ev.Key, ev.Shift)
			case EventPointer:
				form.HandlePointer(ev.X, ev.Y)
			}
		}

		if err := d.Flush(); err != nil {
			return err
		}
	}
}
