package angles

// 要求枚数の妥当な範囲なのだ。呼び出し側は Resolve の前にクランプするのだ。
const (
	MinShotCount = 1
	MaxShotCount = 20
)

// ClampCount は要求枚数を MinShotCount..MaxShotCount の範囲に収めて返します。
func ClampCount(n int) int {
	if n < MinShotCount {
		return MinShotCount
	}
	if n > MaxShotCount {
		return MaxShotCount
	}
	return n
}

// Resolve は要求枚数 count に合わせたアングル指示リストを返します。
// 既存のインデックス 0..min(count, len(previous))-1 の値はそのまま保持し、
// 新しく増えたスロットは空文字列で埋めます。引数のスライスは一切変更せず、
// 常に新しいスライスを返す純粋関数です。
func Resolve(count int, previous []string) []string {
	if count < 0 {
		count = 0
	}
	resolved := make([]string, count)
	for i := 0; i < count && i < len(previous); i++ {
		resolved[i] = previous[i]
	}
	return resolved
}

// FillEmpty は resolved の空スロットだけを suggestions の同インデックス値で
// 埋めた新しいスライスを返すのだ。ユーザーが書いたアングルは上書きしないのだ。
func FillEmpty(resolved, suggestions []string) []string {
	filled := make([]string, len(resolved))
	copy(filled, resolved)
	for i := range filled {
		if filled[i] == "" && i < len(suggestions) {
			filled[i] = suggestions[i]
		}
	}
	return filled
}
