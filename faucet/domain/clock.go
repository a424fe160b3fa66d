package domain

import "time"

// Clock é a fonte de tempo usada nas comparações de expiração.
type Clock interface {
	Now() time.Time
}
