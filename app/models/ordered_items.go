package models

// Screenshot is an image of the application. Order is 1-based and dense
// within its parent.
type Screenshot struct {
	ID      string `json:"id" bson:"id"`
	URL     string `json:"url" bson:"url"`
	Width   int    `json:"width" bson:"width"`
	Height  int    `json:"height" bson:"height"`
	Caption string `json:"caption,omitempty" bson:"caption,omitempty"`
	Order   int    `json:"order" bson:"order"`
}

func (s *Screenshot) GetID() string   { return s.ID }
func (s *Screenshot) SetID(id string) { s.ID = id }
func (s *Screenshot) GetOrder() int   { return s.Order }
func (s *Screenshot) SetOrder(o int)  { s.Order = o }

// WalkthroughStep is one step of the guided product tour.
type WalkthroughStep struct {
	ID          string   `json:"id" bson:"id"`
	Order       int      `json:"order" bson:"order"`
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description" bson:"description"`
	ImageURL    string   `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Tags        []string `json:"tags" bson:"tags"`
}

func (w *WalkthroughStep) GetID() string   { return w.ID }
func (w *WalkthroughStep) SetID(id string) { w.ID = id }
func (w *WalkthroughStep) GetOrder() int   { return w.Order }
func (w *WalkthroughStep) SetOrder(o int)  { w.Order = o }

// FirstScreenshot returns the screenshot with the lowest order.
func (a *Application) FirstScreenshot() (Screenshot, bool) {
	if len(a.Screenshots) == 0 {
		return Screenshot{}, false
	}
	first := a.Screenshots[0]
	for _, s := range a.Screenshots[1:] {
		if s.Order < first.Order {
			first = s
		}
	}
	return first, true
}
