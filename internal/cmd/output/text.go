package output

import (
	"fmt"
	"io"
)

// TextHandler writes human-readable text using a per-item rendering function.
type TextHandler[T any] struct {
	out  io.Writer
	item ItemFunc[T]
}

func NewTextHandler[T any](w io.Writer, item ItemFunc[T]) *TextHandler[T] {
	return &TextHandler[T]{
		out:  w,
		item: item,
	}
}

// Writer returns the underlying io.Writer where text will be written.
func (h *TextHandler[T]) Writer() io.Writer {
	return h.out
}

func (h *TextHandler[T]) HandleResults(items []T) error {
	if len(items) == 0 {
		_, _ = io.WriteString(h.out, "No items found\n")
		return nil
	}

	for _, it := range items {
		if err := h.item(h.out, it); err != nil {
			return err
		}
	}

	return nil
}

func (h *TextHandler[T]) HandleError(err error) error {
	_, werr := fmt.Fprintf(h.out, "Error: %v\n", err)
	return werr
}
