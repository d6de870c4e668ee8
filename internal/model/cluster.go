package model

import "time"

// Cluster is the cluster-wide singleton entity (spec §3).
type Cluster struct {
	DN             string
	StartTimeout   time.Duration
	InitialViewTS  time.Time
	NodeDNs        []string // insertion order, for stable enumeration
}
