package services

import (
	"blackmarket-backend/models"

	"github.com/google/uuid"
)

// categoryIndex is an in-memory view of the hierarchy built from one read of
// the categories table.
type categoryIndex struct {
	roots    []*models.Category
	children map[uuid.UUID][]*models.Category
}

func newCategoryIndex(all []models.Category) *categoryIndex {
	ix := &categoryIndex{children: make(map[uuid.UUID][]*models.Category)}
	for i := range all {
		c := &all[i]
		if c.ParentID == nil {
			ix.roots = append(ix.roots, c)
			continue
		}
		ix.children[*c.ParentID] = append(ix.children[*c.ParentID], c)
	}
	return ix
}

func (ix *categoryIndex) tree(parentID *uuid.UUID, isActive *bool) []models.CategoryNode {
	level := ix.roots
	if parentID != nil {
		level = ix.children[*parentID]
	}
	return ix.build(level, isActive, map[uuid.UUID]bool{})
}

// build renders one level. visited stops the recursion should the stored
// data ever contain a cycle.
func (ix *categoryIndex) build(level []*models.Category, isActive *bool, visited map[uuid.UUID]bool) []models.CategoryNode {
	nodes := []models.CategoryNode{}
	for _, c := range level {
		if isActive != nil && c.IsActive != *isActive {
			continue
		}
		if visited[c.ID] {
			continue
		}
		visited[c.ID] = true

		node := models.NewCategoryNode(c)
		node.Children = ix.build(ix.children[c.ID], isActive, visited)
		nodes = append(nodes, node)
	}
	return nodes
}
