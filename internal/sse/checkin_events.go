package sse

import (
	"context"
	"sync"

	"ms-attendance/internal/models"
)

// CheckinEventEmitter manages SSE connections and broadcasts new check-ins to
// admin dashboards watching a service.
type CheckinEventEmitter struct {
	// serviceClients maps a service ID to the channels of its subscribers.
	serviceClients map[string][]chan models.Attendance
	mu             sync.RWMutex
}

func NewCheckinEventEmitter() *CheckinEventEmitter {
	return &CheckinEventEmitter{
		serviceClients: make(map[string][]chan models.Attendance),
	}
}

// SubscribeToService adds a client to the service's check-in events. The
// subscription is removed when the context is done.
func (e *CheckinEventEmitter) SubscribeToService(ctx context.Context, serviceID string) chan models.Attendance {
	clientChan := make(chan models.Attendance, 10)

	e.mu.Lock()
	e.serviceClients[serviceID] = append(e.serviceClients[serviceID], clientChan)
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.removeClient(serviceID, clientChan)
	}()

	return clientChan
}

// EmitCheckin broadcasts a new attendance record to every subscriber of its
// service. Sends happen under the read lock; removeClient closes channels
// under the write lock, so a channel can never be closed mid-send.
func (e *CheckinEventEmitter) EmitCheckin(record models.Attendance) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, clientChan := range e.serviceClients[record.ServiceID] {
		// Non-blocking send so a slow dashboard cannot stall check-ins.
		select {
		case clientChan <- record:
		default:
		}
	}
}

func (e *CheckinEventEmitter) removeClient(serviceID string, clientChan chan models.Attendance) {
	e.mu.Lock()
	defer e.mu.Unlock()

	clients := e.serviceClients[serviceID]
	for i, ch := range clients {
		if ch == clientChan {
			e.serviceClients[serviceID] = append(clients[:i], clients[i+1:]...)
			close(ch)
			break
		}
	}
	if len(e.serviceClients[serviceID]) == 0 {
		delete(e.serviceClients, serviceID)
	}
}
