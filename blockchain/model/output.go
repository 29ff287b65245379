package model

type Output struct {
	Amount   uint64 // satoshis
	PKScript Script
}
