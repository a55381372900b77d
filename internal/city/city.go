package city

// City is a supported locality. Provider is the name the aladhan API expects,
// which is not always the same as the display name.
type City struct {
	Key      string
	Name     string
	Country  string
	Provider string
}

// DefaultKey is used for unknown users and unknown keys.
const DefaultKey = "astana"

var cities = []City{
	{Key: "astana", Name: "Астана", Country: "Kazakhstan", Provider: "Astana"},
	{Key: "almaty", Name: "Алматы", Country: "Kazakhstan", Provider: "Almaty"},
	{Key: "shymkent", Name: "Шымкент", Country: "Kazakhstan", Provider: "Shymkent"},
	{Key: "karaganda", Name: "Караганда", Country: "Kazakhstan", Provider: "Karaganda"},
	{Key: "aktobe", Name: "Актобе", Country: "Kazakhstan", Provider: "Aktobe"},
}

var byKey = func() map[string]City {
	m := make(map[string]City, len(cities))
	for _, c := range cities {
		m[c.Key] = c
	}
	return m
}()

// Resolve returns the city for key, or the default city when the key is
// unknown or empty. It never fails.
func Resolve(key string) City {
	if c, ok := byKey[key]; ok {
		return c
	}
	return byKey[DefaultKey]
}

// Known reports whether key names a supported city.
func Known(key string) bool {
	_, ok := byKey[key]
	return ok
}

// All returns the supported cities in a stable order.
func All() []City {
	out := make([]City, len(cities))
	copy(out, cities)
	return out
}
