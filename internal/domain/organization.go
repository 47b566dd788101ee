package domain

// Organization is a company profile. It has no author, so nobody but an
// admin can pass an owner check on it.
type Organization struct {
	Meta
	Name    string
	Desc    string
	Logo    string
	Website string
}

func (o *Organization) Owner() (int64, bool) { return 0, false }

func (o *Organization) Fields() map[string]any {
	f := o.fields()
	f["name"] = o.Name
	f["desc"] = o.Desc
	f["logo"] = o.Logo
	f["website"] = o.Website
	return f
}
