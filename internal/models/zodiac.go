package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownZodiacSign is returned for names outside the twelve signs.
var ErrUnknownZodiacSign = errors.New("unknown zodiac sign")

// ZodiacSign is the CMS identifier of a sign.
type ZodiacSign string

// The twelve signs, in calendar order starting from the spring equinox.
const (
	Aries       ZodiacSign = "aries"
	Taurus      ZodiacSign = "taurus"
	Gemini      ZodiacSign = "gemini"
	Cancer      ZodiacSign = "cancer"
	Leo         ZodiacSign = "leo"
	Virgo       ZodiacSign = "virgo"
	Libra       ZodiacSign = "libra"
	Scorpio     ZodiacSign = "scorpio"
	Sagittarius ZodiacSign = "sagittarius"
	Capricorn   ZodiacSign = "capricorn"
	Aquarius    ZodiacSign = "aquarius"
	Pisces      ZodiacSign = "pisces"
)

var zodiacLabels = map[ZodiacSign]string{
	Aries:       "牡羊座",
	Taurus:      "牡牛座",
	Gemini:      "双子座",
	Cancer:      "蟹座",
	Leo:         "獅子座",
	Virgo:       "乙女座",
	Libra:       "天秤座",
	Scorpio:     "蠍座",
	Sagittarius: "射手座",
	Capricorn:   "山羊座",
	Aquarius:    "水瓶座",
	Pisces:      "魚座",
}

// ZodiacSigns returns all signs in order.
func ZodiacSigns() []ZodiacSign {
	return []ZodiacSign{
		Aries, Taurus, Gemini, Cancer, Leo, Virgo,
		Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces,
	}
}

// Valid reports whether z is one of the twelve signs.
func (z ZodiacSign) Valid() bool {
	_, ok := zodiacLabels[z]
	return ok
}

// Label returns the Japanese name of the sign, or "" if unknown.
func (z ZodiacSign) Label() string {
	return zodiacLabels[z]
}

// ParseZodiacSign accepts a CMS identifier (any case) or a Japanese name.
func ParseZodiacSign(s string) (ZodiacSign, error) {
	key := ZodiacSign(strings.ToLower(strings.TrimSpace(s)))
	if key.Valid() {
		return key, nil
	}

	for sign, label := range zodiacLabels {
		if label == strings.TrimSpace(s) {
			return sign, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownZodiacSign, s)
}
