package models

type CreateCallRequest struct {
	Number   string `json:"number" validate:"required,phonenumber"`
	Time     int64  `json:"time" validate:"gte=0"`
	RingTime int64  `json:"ring_time" validate:"gte=0"`
	Duration int64  `json:"duration" validate:"gte=0"`
}

type IncomingCallRequest struct {
	Number   string `json:"number" validate:"required,phonenumber"`
	RingTime int64  `json:"ring_time" validate:"gte=0"`
	Duration int64  `json:"duration" validate:"gte=0"`
}

type ClearCallsRequest struct {
	IDs []int64 `json:"ids" validate:"dive,gt=0"`
}

type SaveCallerRequest struct {
	ID      int64  `json:"id" validate:"gte=0"`
	Number  string `json:"number" validate:"required,phonenumber"`
	Name    string `json:"name" validate:"max=200"`
	Type    string `json:"type" validate:"omitempty,callertype"`
	Offline bool   `json:"offline"`
}

type SaveMarkedRequest struct {
	ID       int64  `json:"id" validate:"gte=0"`
	Number   string `json:"number" validate:"required,phonenumber"`
	Type     int    `json:"type" validate:"gte=0"`
	TypeName string `json:"type_name" validate:"required,max=100"`
	Reported bool   `json:"reported"`
	Source   string `json:"source" validate:"max=100"`
}
