package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jobdeck/jobdeck_server/internal/account"
	"github.com/jobdeck/jobdeck_server/internal/application"
)

func newTestClient(hub *Hub, userID uuid.UUID) *Client {
	return &Client{
		hub:  hub,
		user: &account.User{ID: userID, Username: "tester"},
		send: make(chan interface{}, sendBufferSize),
	}
}

func changeFor(userID uuid.UUID, action Action) *ChangeMessage {
	return &ChangeMessage{
		Type:   MessageTypeChange,
		Action: action,
		Application: &application.Application{
			ID:          7,
			UserID:      userID,
			CompanyName: "Acme",
		},
	}
}

func TestHub_DispatchChange_ShouldReachOnlyTheOwnersClients(t *testing.T) {
	// given
	hub := NewHub()
	owner := uuid.New()
	other := uuid.New()

	ownerClient := newTestClient(hub, owner)
	otherClient := newTestClient(hub, other)
	hub.registerClient(ownerClient)
	hub.registerClient(otherClient)

	// when
	hub.dispatchChange(changeFor(owner, ActionInsert))

	// then
	select {
	case msg := <-ownerClient.send:
		change, ok := msg.(*ChangeMessage)
		if !ok {
			t.Fatalf("Expected ChangeMessage, got %T", msg)
		}
		if change.Action != ActionInsert {
			t.Errorf("Expected INSERT action, got %s", change.Action)
		}
		if change.Application.ID != 7 {
			t.Errorf("Expected application 7, got %d", change.Application.ID)
		}
	default:
		t.Fatal("Expected the owner's client to receive the change")
	}

	if len(otherClient.send) != 0 {
		t.Errorf("Expected no delivery to the other user's client, got %d messages", len(otherClient.send))
	}
}

func TestHub_DispatchChange_ShouldReachAllClientsOfTheOwner(t *testing.T) {
	// given
	hub := NewHub()
	owner := uuid.New()
	first := newTestClient(hub, owner)
	second := newTestClient(hub, owner)
	hub.registerClient(first)
	hub.registerClient(second)

	// when
	hub.dispatchChange(changeFor(owner, ActionDelete))

	// then
	if len(first.send) != 1 || len(second.send) != 1 {
		t.Errorf("Expected one message per client, got %d and %d", len(first.send), len(second.send))
	}
}

func TestHub_DispatchChange_FullBufferShouldDropNotBlock(t *testing.T) {
	// given
	hub := NewHub()
	owner := uuid.New()
	client := newTestClient(hub, owner)
	hub.registerClient(client)

	for i := 0; i < sendBufferSize; i++ {
		client.send <- &OutgoingMessage{Type: MessageTypePong}
	}

	// when: must return instead of blocking on the full channel
	hub.dispatchChange(changeFor(owner, ActionInsert))

	// then
	if len(client.send) != sendBufferSize {
		t.Errorf("Expected buffer to stay at %d, got %d", sendBufferSize, len(client.send))
	}
}

func TestHub_UnregisterClient_ShouldRemoveBookkeepingAndCloseSend(t *testing.T) {
	// given
	hub := NewHub()
	owner := uuid.New()
	client := newTestClient(hub, owner)
	hub.registerClient(client)

	// when
	hub.unregisterClient(client)

	// then
	totalClients, totalUsers := hub.GetStats()
	if totalClients != 0 || totalUsers != 0 {
		t.Errorf("Expected empty hub, got %d clients, %d users", totalClients, totalUsers)
	}

	if _, open := <-client.send; open {
		t.Error("Expected send channel to be closed")
	}

	// A change after teardown must go nowhere.
	hub.dispatchChange(changeFor(owner, ActionInsert))
}

func TestHub_UnregisterClient_ShouldBeIdempotent(t *testing.T) {
	// given
	hub := NewHub()
	client := newTestClient(hub, uuid.New())
	hub.registerClient(client)

	// when
	hub.unregisterClient(client)
	hub.unregisterClient(client)

	// then
	totalClients, _ := hub.GetStats()
	if totalClients != 0 {
		t.Errorf("Expected 0 clients, got %d", totalClients)
	}
}

func TestListener_Dispatch_InsertShouldPublishChange(t *testing.T) {
	// given
	hub := NewHub()
	listener := &Listener{channel: "applications_changes", hub: hub}
	userID := uuid.New()
	payload := `{"action":"INSERT","row":{"id":3,"userId":"` + userID.String() + `","companyName":"Acme","jobTitle":"Engineer"}}`

	// when
	listener.dispatch(payload)

	// then
	select {
	case msg := <-hub.changes:
		if msg.Action != ActionInsert {
			t.Errorf("Expected INSERT, got %s", msg.Action)
		}
		if msg.Application.UserID != userID {
			t.Errorf("Expected owner %s, got %s", userID, msg.Application.UserID)
		}
		if msg.Application.ID != 3 {
			t.Errorf("Expected application 3, got %d", msg.Application.ID)
		}
	default:
		t.Fatal("Expected a change to be published")
	}
}

func TestListener_Dispatch_DeleteShouldPublishChange(t *testing.T) {
	// given
	hub := NewHub()
	listener := &Listener{channel: "applications_changes", hub: hub}
	payload := `{"action":"DELETE","row":{"id":9,"userId":"` + uuid.NewString() + `"}}`

	// when
	listener.dispatch(payload)

	// then
	if len(hub.changes) != 1 {
		t.Fatalf("Expected 1 published change, got %d", len(hub.changes))
	}
}

func TestListener_Dispatch_UpdateShouldBeANoOp(t *testing.T) {
	// given
	hub := NewHub()
	listener := &Listener{channel: "applications_changes", hub: hub}
	payload := `{"action":"UPDATE","row":{"id":9,"userId":"` + uuid.NewString() + `"}}`

	// when
	listener.dispatch(payload)

	// then
	if len(hub.changes) != 0 {
		t.Errorf("Expected no published change for UPDATE, got %d", len(hub.changes))
	}
}

func TestListener_Dispatch_MalformedPayloadShouldPublishNothing(t *testing.T) {
	// given
	hub := NewHub()
	listener := &Listener{channel: "applications_changes", hub: hub}

	// when
	listener.dispatch(`{not json`)

	// then
	if len(hub.changes) != 0 {
		t.Errorf("Expected no published change, got %d", len(hub.changes))
	}
}
