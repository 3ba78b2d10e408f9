package model

import (
	"errors"
	"fmt"
)

// ErrInvalidNodeConfig marks configuration rejected before any process is spawned.
var ErrInvalidNodeConfig = errors.New("invalid node configuration")

// NodeConfig is the stable representation of one logical client node.
// It is built once from validated CLI input and never mutated afterwards.
type NodeConfig struct {
	Cid          int32
	TotalClients int32
	DataSeed     int32
}

func (c NodeConfig) Validate() error {
	if c.TotalClients < 1 {
		return fmt.Errorf("%w: total-clients must be >= 1, got %d", ErrInvalidNodeConfig, c.TotalClients)
	}
	if c.Cid < 0 || c.Cid >= c.TotalClients {
		return fmt.Errorf("%w: cid must be within [0, %d), got %d", ErrInvalidNodeConfig, c.TotalClients, c.Cid)
	}
	return nil
}

// AsFlag serializes the node configuration into the single --node-config
// flag value expected by flower-supernode. Key order is fixed.
func (c NodeConfig) AsFlag() string {
	return fmt.Sprintf("partition-id=%d num-partitions=%d data-seed=%d", c.Cid, c.TotalClients, c.DataSeed)
}

// ConnectionTargets holds the destination addresses for the Flower services
// the SuperNode connects to, each of form host:port.
type ConnectionTargets struct {
	Superlink string
	ClientApp string
}
