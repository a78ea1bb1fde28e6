package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dinetap/dinetap/models"
	"github.com/dinetap/dinetap/utils"
)

// Event types pushed to a tenant's connected dashboard clients. Customers
// poll the read endpoints instead; this hub only supplements polling.
const (
	EventTableUpdate       = "table_update"
	EventOrderCreated      = "order_created"
	EventOrderItemUpdate   = "order_item_update"
	EventOrderStatusUpdate = "order_status_update"
	EventBillGenerated     = "bill_generated"
	EventBillFinalized     = "bill_finalized"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub tracks connections per tenant so one restaurant's events never reach
// another restaurant's dashboard.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> adminUID
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

func RegisterClient(conn *websocket.Conn, adminUID string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = adminUID
}

func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

func BroadcastTableUpdate(table models.Table) {
	broadcast(table.AdminUID, Message{Event: EventTableUpdate, Data: table})
}

func BroadcastOrderCreated(order models.Order) {
	broadcast(order.AdminUID, Message{Event: EventOrderCreated, Data: order})
}

func BroadcastOrderItemUpdate(order models.Order, item models.OrderItem) {
	broadcast(order.AdminUID, Message{
		Event: EventOrderItemUpdate,
		Data: map[string]interface{}{
			"order_id": order.ID,
			"item":     item,
		},
	})
}

func BroadcastOrderStatusUpdate(order models.Order) {
	broadcast(order.AdminUID, Message{Event: EventOrderStatusUpdate, Data: order})
}

func BroadcastBillGenerated(bill models.Bill) {
	broadcast(bill.AdminUID, Message{Event: EventBillGenerated, Data: bill})
}

func BroadcastBillFinalized(bill models.Bill) {
	broadcast(bill.AdminUID, Message{Event: EventBillFinalized, Data: bill})
}

func broadcast(adminUID string, msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling event: %v", err)
		return
	}

	for conn, owner := range hub.clients {
		if owner != adminUID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending event to client: %v", err)
		}
	}
}
