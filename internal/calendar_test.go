package internal_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/franela/goblin"
	. "github.com/onsi/gomega"

	"github.com/spacelift-io/workdayscalr/internal"
)

func date(year int, month time.Month, day int) civil.Date {
	return civil.Date{Year: year, Month: month, Day: day}
}

func TestHolidayCalendar(t *testing.T) {
	g := goblin.Goblin(t)
	RegisterFailHandler(func(m string, _ ...int) { g.Fail(m) })

	g.Describe("HolidayCalendar", func() {
		var holidays []civil.Date
		var sut *internal.HolidayCalendar

		g.BeforeEach(func() { holidays = nil })

		g.JustBeforeEach(func() { sut = internal.NewHolidayCalendar(holidays) })

		g.Describe("Contains", func() {
			g.BeforeEach(func() {
				holidays = []civil.Date{date(2024, time.April, 1), date(2024, time.April, 1), date(2024, time.May, 1)}
			})

			g.It("should deduplicate the holidays", func() {
				Expect(sut.Len()).To(Equal(2))
			})

			g.It("should find a listed date", func() {
				Expect(sut.Contains(date(2024, time.May, 1))).To(BeTrue())
			})

			g.It("should not find an unlisted date", func() {
				Expect(sut.Contains(date(2024, time.May, 2))).To(BeFalse())
			})
		})

		g.Describe("IsWorkingDay", func() {
			g.BeforeEach(func() { holidays = []civil.Date{date(2024, time.April, 1)} })

			g.It("should exclude weekends", func() {
				Expect(sut.IsWorkingDay(date(2024, time.April, 6))).To(BeFalse())
				Expect(sut.IsWorkingDay(date(2024, time.April, 7))).To(BeFalse())
			})

			g.It("should exclude holidays", func() {
				Expect(sut.IsWorkingDay(date(2024, time.April, 1))).To(BeFalse())
			})

			g.It("should accept regular weekdays", func() {
				Expect(sut.IsWorkingDay(date(2024, time.April, 2))).To(BeTrue())
				Expect(sut.IsWorkingDay(date(2024, time.April, 5))).To(BeTrue())
			})

			g.It("should only exclude the year the holiday was listed for", func() {
				Expect(sut.IsWorkingDay(date(2023, time.April, 3))).To(BeTrue())
				Expect(sut.IsWorkingDay(date(2025, time.April, 1))).To(BeTrue())
			})

			g.Describe("with a leap day holiday", func() {
				g.BeforeEach(func() { holidays = []civil.Date{date(2024, time.February, 29)} })

				g.It("should shift the rest of the month", func() {
					Expect(sut.IsWorkingDay(date(2024, time.February, 29))).To(BeFalse())

					got, ok := sut.NthWorkingDay(2024, time.February, 21)
					Expect(ok).To(BeFalse(), "February 2024 only has 20 working days left, got %s", got)
					Expect(sut.WorkingDaysMTD(date(2024, time.February, 29))).To(Equal(20))
				})
			})
		})

		g.Describe("NthWorkingDay", func() {
			g.Describe("when the 1st is a holiday", func() {
				g.BeforeEach(func() { holidays = []civil.Date{date(2024, time.April, 1)} })

				g.It("should skip to the next working day", func() {
					got, ok := sut.NthWorkingDay(2024, time.April, 1)
					Expect(ok).To(BeTrue())
					Expect(got).To(Equal(date(2024, time.April, 2)))
				})
			})

			g.Describe("when the month has 22 working days", func() {
				g.It("should find the 22nd", func() {
					got, ok := sut.NthWorkingDay(2024, time.April, 22)
					Expect(ok).To(BeTrue())
					Expect(got).To(Equal(date(2024, time.April, 30)))
				})

				g.It("should not find the 23rd", func() {
					_, ok := sut.NthWorkingDay(2024, time.April, 23)
					Expect(ok).To(BeFalse())
				})
			})

			g.Describe("when n is not positive", func() {
				g.It("should not find anything", func() {
					_, ok := sut.NthWorkingDay(2024, time.April, 0)
					Expect(ok).To(BeFalse())
				})
			})

			g.Describe("when the month starts on a weekend", func() {
				g.It("should skip the weekend", func() {
					got, ok := sut.NthWorkingDay(2024, time.June, 1)
					Expect(ok).To(BeTrue())
					Expect(got).To(Equal(date(2024, time.June, 3)))
				})
			})

			g.Describe("for every month of a decade", func() {
				g.BeforeEach(func() {
					holidays = []civil.Date{
						date(2024, time.January, 1),
						date(2024, time.December, 25),
						date(2025, time.May, 1),
						date(2026, time.February, 2),
					}
				})

				g.It("should only return working days in the month, or nothing when the month is too short", func() {
					for year := 2020; year < 2030; year++ {
						for month := time.January; month <= time.December; month++ {
							working := 0
							for d := date(year, month, 1); d.Month == month; d = d.AddDays(1) {
								if sut.IsWorkingDay(d) {
									working++
								}
							}

							for n := 1; n <= 31; n++ {
								got, ok := sut.NthWorkingDay(year, month, n)
								Expect(ok).To(Equal(n <= working), "year %d month %s n %d", year, month, n)

								if !ok {
									continue
								}

								Expect(got.Month).To(Equal(month))
								Expect(got.In(time.UTC).Weekday()).NotTo(BeElementOf(time.Saturday, time.Sunday))
								Expect(sut.Contains(got)).To(BeFalse())
								Expect(sut.WorkingDaysMTD(got)).To(Equal(n))
							}
						}
					}
				})
			})
		})

		g.Describe("WorkingDaysMTD", func() {
			g.BeforeEach(func() {
				holidays = []civil.Date{
					date(2022, time.January, 1),
					date(2022, time.February, 28),
					date(2022, time.March, 1),
					date(2022, time.April, 15),
					date(2022, time.April, 21),
					date(2022, time.May, 1),
					date(2022, time.June, 16),
					date(2022, time.September, 7),
					date(2022, time.October, 12),
					date(2022, time.November, 2),
					date(2022, time.November, 15),
					date(2022, time.December, 25),
				}
			})

			g.It("should count June 2022", func() {
				june := []int{
					1, 2, 3, 3, 3, 4, 5, 6, 7, 8, 8, 8, 9, 10, 11, 11, 12, 12, 12, 13, 14, 15, 16, 17, 17,
					17, 18, 19, 20, 21,
				}

				for i, want := range june {
					Expect(sut.WorkingDaysMTD(date(2022, time.June, i+1))).To(Equal(want), "day %d", i+1)
				}
			})

			g.It("should count November 2022", func() {
				november := []int{
					1, 1, 2, 3, 3, 3, 4, 5, 6, 7, 8, 8, 8, 9, 9, 10, 11, 12, 12, 12, 13, 14, 15, 16, 17,
					17, 17, 18, 19, 20,
				}

				for i, want := range november {
					Expect(sut.WorkingDaysMTD(date(2022, time.November, i+1))).To(Equal(want), "day %d", i+1)
				}
			})
		})
	})
}
