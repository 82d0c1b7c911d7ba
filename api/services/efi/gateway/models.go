package gateway

// PlanInput is the body of POST /v1/plan. A nil Repeats means the plan
// renews until cancelled.
type PlanInput struct {
	Name     string `json:"name"`
	Interval int    `json:"interval"`
	Repeats  *int   `json:"repeats"`
}

type Plan struct {
	PlanID   int64  `json:"plan_id"`
	Name     string `json:"name"`
	Interval int    `json:"interval"`
	Repeats  *int   `json:"repeats"`
}

type SubscriptionItem struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
	// Value is in cents.
	Value int64 `json:"value"`
}

type SubscriptionInput struct {
	Items []SubscriptionItem `json:"items"`
}

type Subscription struct {
	SubscriptionID int64  `json:"subscription_id"`
	Status         string `json:"status"`
	PlanID         int64  `json:"plan_id,omitempty"`
}

// PixChargeInput is the body of POST /v2/cob.
type PixChargeInput struct {
	Calendario         PixCalendar `json:"calendario"`
	Devedor            PixDebtor   `json:"devedor"`
	Valor              PixValue    `json:"valor"`
	Chave              string      `json:"chave"`
	SolicitacaoPagador string      `json:"solicitacaoPagador,omitempty"`
}

type PixCalendar struct {
	// Expiracao is in seconds.
	Expiracao int `json:"expiracao"`
}

type PixDebtor struct {
	CPF  string `json:"cpf"`
	Nome string `json:"nome"`
}

type PixValue struct {
	// Original is a decimal string in reais, e.g. "2.00".
	Original string `json:"original"`
}

type PixCharge struct {
	TxID          string      `json:"txid"`
	Status        string      `json:"status"`
	Loc           PixLocation `json:"loc"`
	PixCopiaECola string      `json:"pixCopiaECola"`
}

type PixLocation struct {
	ID int64 `json:"id"`
}

type QRCode struct {
	QRCode           string `json:"qrcode"`
	ImagemQRCode     string `json:"imagemQrcode"`
	LinkVisualizacao string `json:"linkVisualizacao,omitempty"`
}
