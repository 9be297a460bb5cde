package vmmodel

const (
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

type Payment struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	PaymentID string  `json:"payment_id"`
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
}

func (p *Payment) setID(id string) { p.ID = id }
