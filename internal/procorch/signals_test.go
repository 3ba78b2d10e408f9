package procorch

import (
	"testing"

	"github.com/FNNDSC/pl-supernode/internal/events"
	"github.com/hashicorp/go-hclog"
)

func TestArmSignalHandler(t *testing.T) {
	logger := hclog.NewNullLogger()
	registry := NewChildRegistry(logger)
	eventBus := events.NewEventBus()

	disarm := ArmSignalHandler(logger, registry, eventBus)
	if disarm == nil {
		t.Fatalf("expected the first arm to succeed")
	}
	defer disarm()

	if second := ArmSignalHandler(logger, registry, eventBus); second != nil {
		second()
		t.Fatalf("expected the second arm to be refused while armed")
	}
}

func TestArmSignalHandlerRearmAfterDisarm(t *testing.T) {
	logger := hclog.NewNullLogger()
	registry := NewChildRegistry(logger)

	disarm := ArmSignalHandler(logger, registry, nil)
	if disarm == nil {
		t.Fatalf("expected arming to succeed")
	}
	disarm()

	again := ArmSignalHandler(logger, registry, nil)
	if again == nil {
		t.Fatalf("expected re-arming after disarm to succeed")
	}
	again()
}
