package cache

import "fmt"

// Order cache: gift:order:{member_id}:{order_id} -> OrderResult JSON
const keyOrder = "gift:order:%d:%d"

func orderKey(memberID, orderID uint) string {
	return fmt.Sprintf(keyOrder, memberID, orderID)
}
