package web

// Paging params, mapped from query params or json body.
type Paging struct {
	Limit int `form:"limit" json:"limit"`
	Page  int `form:"page" json:"page"`
	Total int `form:"-" json:"total"`
}

// Build Paging for response.
func BuildResPage(reqPage Paging, total int) Paging {
	return Paging{
		Limit: reqPage.Limit,
		Page:  reqPage.Page,
		Total: total,
	}
}

// Calculate offset, Page and Limit are corrected if they are out of range.
func (p *Paging) CalcOffset() int {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 30
	}
	return (p.Page - 1) * p.Limit
}
