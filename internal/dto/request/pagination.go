package request

import "backend-template/pkg/utils"

type PageRequest struct {
	Page     int
	PageSize int
}

func (p PageRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PageRequest) Limit() int {
	if p.PageSize < 1 {
		return utils.DefaultPageSize
	}
	if p.PageSize > utils.MaxPageSize {
		return utils.MaxPageSize
	}
	return p.PageSize
}
