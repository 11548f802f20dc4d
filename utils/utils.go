package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderID produces the client-side unique order id stored on a
// PaymentTransaction before the gateway session is opened.
func GenerateOrderID() string {
	return fmt.Sprintf("TBZ-%d-%s", time.Now().Unix(), strings.ToUpper(uuid.NewString()[:8]))
}

// GenerateTicketNumber produces the human-readable support ticket id.
func GenerateTicketNumber() string {
	return fmt.Sprintf("TKT-%s-%s", time.Now().Format("20060102"), strings.ToUpper(uuid.NewString()[:6]))
}
