package domain

// Relationship tracks a customer relationship and the goals pursued in it.
// Goals are weak references by numeric id.
type Relationship struct {
	Meta
	Author int64
	Name   string
	Desc   string
	Goals  []int64
}

func (r *Relationship) Owner() (int64, bool) { return r.Author, true }

func (r *Relationship) Fields() map[string]any {
	f := r.fields()
	f["author"] = r.Author
	f["name"] = r.Name
	f["desc"] = r.Desc
	goals := make([]int64, len(r.Goals))
	copy(goals, r.Goals)
	f["goals"] = goals
	return f
}
