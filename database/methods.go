package database

import (
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

// Comma-joined ids of the events recorded for the collection
func (c *Collection) EventIDs() string {
	return strings.Join(c.Events, ",")
}

func (c *Collection) AddEvent(eventID string, timestamp time.Time) {
	c.Events = append(c.Events, eventID)
	c.Updated = timestamp
}

// Comma-joined ids of the events recorded for the NFT
func (n *NFT) EventIDs() string {
	return strings.Join(n.Events, ",")
}

func (n *NFT) AddEvent(eventID string, timestamp time.Time) {
	n.Events = append(n.Events, eventID)
	n.Updated = timestamp
}

func (n *NFT) ChildIndex(id string) int {
	return slices.IndexFunc(n.Children, func(c NFTChild) bool { return c.ID == id })
}

func (n *NFT) AddChild(child NFTChild) {
	n.Children = append(n.Children, child)
}

// Returns false if there is no child with the given id
func (n *NFT) RemoveChild(id string) bool {
	idx := n.ChildIndex(id)
	if idx < 0 {
		return false
	}
	n.Children = slices.Delete(n.Children, idx, idx+1)
	return true
}

// True if the NFT holds the child and has not accepted it yet
func (n *NFT) IsPendingChild(id string) bool {
	idx := n.ChildIndex(id)
	return idx >= 0 && n.Children[idx].Pending
}

// Clears the pending flag of all children with the given id
func (n *NFT) AcceptChild(id string) {
	for i := range n.Children {
		if n.Children[i].ID == id {
			n.Children[i].Pending = false
		}
	}
}

// Clears the pending flag of all resources with the given id
func (n *NFT) AcceptResource(id string) {
	for i := range n.Resources {
		if n.Resources[i].ID == id {
			n.Resources[i].Pending = false
		}
	}
}

func (n *NFT) AddResource(res Resource) {
	n.Priority = append(n.Priority, res.ID)
	n.Resources = append(n.Resources, res)
}

func (c *Collection) EntityID() string {
	if c == nil {
		return ""
	}
	return c.ID
}

func (c *Collection) Owner() string {
	return c.CurrentOwner
}

func (c *Collection) IssuedBy() string {
	return c.Issuer
}

func (n *NFT) EntityID() string {
	if n == nil {
		return ""
	}
	return n.ID
}

func (n *NFT) Owner() string {
	return n.CurrentOwner
}

func (n *NFT) IssuedBy() string {
	return n.Issuer
}
