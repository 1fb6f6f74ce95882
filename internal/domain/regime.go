package domain

type Regime string

const (
	Regime_Calm     Regime = "CALM"
	Regime_Normal   Regime = "NORMAL"
	Regime_Volatile Regime = "VOLATILE"
)
