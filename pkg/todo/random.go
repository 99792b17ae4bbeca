package todo

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

var randomTasks = []string{
	"Learn compose",
	"Take the codelab",
	"Apply state",
	"Build dynamic UIs",
	"Water the plants",
	"Call the dentist",
	"Renew library books",
	"Plan the weekend",
}

// RandomItem returns an item with a random task and icon. A nil r uses the
// global source.
func RandomItem(r *rand.Rand) Item {
	intn := rand.IntN
	if r != nil {
		intn = r.IntN
	}
	return Item{
		ID:   uuid.New(),
		Task: randomTasks[intn(len(randomTasks))],
		Icon: Icons[intn(len(Icons))],
	}
}
