package refresh

import (
	"stock-screener/src/interfaces"
	"stock-screener/src/models"
)

// Publishers fans a snapshot out to several publishers in order.
type Publishers []interfaces.ISnapshotPublisher

func (p Publishers) Publish(msg models.MSnapshotMessage) {
	for _, pub := range p {
		pub.Publish(msg)
	}
}
