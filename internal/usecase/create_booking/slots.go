package create_booking

import (
	"strconv"
	"strings"
)

// allocateSlot выбирает номер места: первое свободное из закреплённых за компанией
// ("1".."allocated"), а если все заняты - следующее свободное гостевое ("GUEST-1", "GUEST-2", ...)
func allocateSlot(taken []string, allocated int, guestPrefix string) string {
	used := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		used[s] = struct{}{}
	}

	for n := 1; n <= allocated; n++ {
		slot := strconv.Itoa(n)
		if _, ok := used[slot]; !ok {
			return slot
		}
	}

	for k := 1; ; k++ {
		slot := guestSlot(guestPrefix, k)
		if _, ok := used[slot]; !ok {
			return slot
		}
	}
}

func guestSlot(prefix string, k int) string {
	return strings.TrimSuffix(prefix, "-") + "-" + strconv.Itoa(k)
}
