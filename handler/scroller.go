package handler

import (
	"context"
	"encoding/json"
	"fmt"
)

// Scroller implements form.Scroller over the datastar stream of the
// request that triggered the validation. Refs are CSS selectors.
type Scroller struct{}

const scrollScript = `(() => {const el = document.querySelector(%s); if (!el) return; ` +
	`window.scrollTo({top: el.getBoundingClientRect().top + window.scrollY - %d, behavior: "smooth"}); ` +
	`el.focus({preventScroll: true});})()`

// ScrollTo asks the browser to bring ref into view, offset pixels below
// the top edge.
func (Scroller) ScrollTo(ctx context.Context, ref any, offset int) error {
	sse, ok := SSEFromContext(ctx)
	if !ok {
		return ErrSSENotInitialized
	}
	selector, ok := ref.(string)
	if !ok || selector == "" {
		return fmt.Errorf("scroll target must be a selector, got %T", ref)
	}
	quoted, err := json.Marshal(selector)
	if err != nil {
		return err
	}
	return sse.ExecuteScript(fmt.Sprintf(scrollScript, quoted, offset))
}
