package pagination

import "gorm.io/gorm"

type Pagination struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=25" validate:"gte=1,lte=250"` // Min 1, Max 250
}

func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 25
	}
	if p.PageSize > 250 {
		p.PageSize = 250
	}
	return p
}

// Apply adds LIMIT/OFFSET to the statement.
func (p Pagination) Apply(stmt *gorm.DB) *gorm.DB {
	n := p.Normalize()
	return stmt.Limit(n.PageSize).Offset((n.Page - 1) * n.PageSize)
}
