package domain

import "time"

// Contract is an agreement with a customer, authored by a user.
type Contract struct {
	Meta
	Author            int64
	Name              string
	Description       string
	Customer          string
	CustomerEmail     string
	CustomerTerms     string
	RenewalPeriod     RenewalPeriod
	CancellationTerms CancellationTerms
	BillingType       BillingType
	ContractStart     *time.Time
	ContractEnd       *time.Time
	Resources         string
}

func (c *Contract) Owner() (int64, bool) { return c.Author, true }

func (c *Contract) Fields() map[string]any {
	f := c.fields()
	f["author"] = c.Author
	f["name"] = c.Name
	f["description"] = c.Description
	f["customer"] = c.Customer
	f["customerEmail"] = c.CustomerEmail
	f["customerTerms"] = c.CustomerTerms
	f["renewalPeriod"] = int(c.RenewalPeriod)
	f["cancellationTerms"] = int(c.CancellationTerms)
	f["billingType"] = int(c.BillingType)
	f["contractStart"] = timeOrNil(c.ContractStart)
	f["contractEnd"] = timeOrNil(c.ContractEnd)
	f["resources"] = c.Resources
	return f
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
