package apper

import "github.com/pipeline-crm/leadboard/internal/entity"

func NewSalesRepStore(c *Client) *Collection[entity.SalesRep] {
	return NewCollection[entity.SalesRep](c, TableSalesRep, entity.SalesRepFields,
		OrderBy{FieldName: "total_revenue", SortType: SortDesc})
}

func NewTeamStore(c *Client) *Collection[entity.TeamMember] {
	return NewCollection[entity.TeamMember](c, TableTeam, entity.TeamMemberFields,
		OrderBy{FieldName: entity.FieldCreatedAt, SortType: SortDesc})
}

func NewContactStore(c *Client) *Collection[entity.Contact] {
	return NewCollection[entity.Contact](c, TableContact, entity.ContactFields,
		OrderBy{FieldName: entity.FieldCreatedAt, SortType: SortDesc})
}
