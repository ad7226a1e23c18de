package pickup

// FallbackNote 上游失败时附带的提示
const FallbackNote = "Using fallback pickup lines due to API issues. Please try again later."

// UnreadableNote 上游有返回但无法抽取出任何条目时的提示
const UnreadableNote = "Using fallback pickup lines because the generated response could not be read. Please try again later."

// fallbackCatalog 至少 MaxCount 条，保证任意合法数量都能完整返回
var fallbackCatalog = [...]Item{
	{Text: "Ikaw ba ay Google? Kasi nasa'yo na lahat ng hinahanap ko.", Translation: "Are you Google? Because you have everything I'm looking for."},
	{Text: "Kape ka ba? Kasi hindi ako makatulog kakaisip sa'yo.", Translation: "Are you coffee? Because I can't sleep thinking about you."},
	{Text: "Sana WiFi ka na lang, para lagi tayong connected.", Translation: "I wish you were WiFi, so we'd always be connected."},
	{Text: "Camera ka ba? Kasi napapangiti ako tuwing nakikita kita.", Translation: "Are you a camera? Because I smile every time I see you."},
	{Text: "Keyboard ka ba? Kasi ikaw ang type ko.", Translation: "Are you a keyboard? Because you're my type."},
	{Text: "Magnanakaw ka ba? Kasi ninakaw mo ang puso ko.", Translation: "Are you a thief? Because you stole my heart."},
	{Text: "Pagod ka na ba? Kanina ka pa kasi tumatakbo sa isip ko.", Translation: "Are you tired? Because you've been running through my mind all day."},
	{Text: "Sana tubig na lang ako, para kailangan mo ako araw-araw.", Translation: "I wish I were water, so you'd need me every day."},
	{Text: "Mapa ka ba? Kasi naliligaw ako sa mga mata mo.", Translation: "Are you a map? Because I get lost in your eyes."},
	{Text: "Jeep ka ba? Kasi sasakay ako sa lahat ng trip mo.", Translation: "Are you a jeepney? Because I'll ride along with all your trips."},
	{Text: "May lisensya ka ba? Kasi pinapabilis mo ang tibok ng puso ko.", Translation: "Do you have a license? Because you make my heart race."},
	{Text: "Kalendaryo ka ba? Kasi gusto kitang makasama araw-araw.", Translation: "Are you a calendar? Because I want to be with you every day."},
	{Text: "Hindi ako photographer, pero kaya kong i-picture tayong dalawa.", Translation: "I'm not a photographer, but I can picture the two of us together."},
	{Text: "Charger ka ba? Kasi pag wala ka, nauubusan ako ng lakas.", Translation: "Are you a charger? Because without you, I run out of energy."},
	{Text: "Kung bituin ka, ako ang gabi, para lagi tayong magkasama.", Translation: "If you were a star, I'd be the night, so we'd always be together."},
	{Text: "Sabaw ka ba? Kasi pinapainit mo ang puso ko.", Translation: "Are you soup? Because you warm my heart."},
	{Text: "Sana ikaw na lang ang traffic, para matagal kitang kasama.", Translation: "I wish you were the traffic, so I could be stuck with you for a long time."},
	{Text: "Asukal ka ba? Kasi pinatatamis mo ang araw ko.", Translation: "Are you sugar? Because you sweeten my day."},
	{Text: "Exam ka ba? Kasi ikaw lang ang laman ng isip ko.", Translation: "Are you an exam? Because you're all I can think about."},
	{Text: "Bangko ka ba? Kasi gusto kong mag-ipon ng alaala kasama ka.", Translation: "Are you a bank? Because I want to save up memories with you."},
	{Text: "Alarm clock ka ba? Kasi ginising mo ang natutulog kong puso.", Translation: "Are you an alarm clock? Because you woke up my sleeping heart."},
}

// Fallback 返回兜底目录的前 n 条副本（n 会被钳制）
func Fallback(n int) []Item {
	n = ClampCount(n)
	if n > len(fallbackCatalog) {
		n = len(fallbackCatalog)
	}
	out := make([]Item, n)
	copy(out, fallbackCatalog[:n])
	return out
}

// FallbackSize 兜底目录条数
func FallbackSize() int {
	return len(fallbackCatalog)
}
