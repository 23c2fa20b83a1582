package partition_test

import (
	"testing"

	"github.com/gnsrivastava/ProjectScripts/internal/domain/partition"
	. "github.com/smartystreets/goconvey/convey"
)

func TestContiguous(t *testing.T) {
	Convey("Given contiguous partitioning", t, func() {
		Convey("When splitting across many n/worker combinations", func() {
			for n := 0; n <= 25; n++ {
				for w := 1; w <= 8; w++ {
					spans, err := partition.Contiguous(n, w)
					So(err, ShouldBeNil)
					So(len(spans), ShouldEqual, w)

					total := 0
					minLen, maxLen := n+1, -1
					prevEnd := 0
					for _, s := range spans {
						So(s.Start, ShouldEqual, prevEnd) // concatenation reproduces order
						prevEnd = s.End
						total += s.Len()
						if s.Len() < minLen {
							minLen = s.Len()
						}
						if s.Len() > maxLen {
							maxLen = s.Len()
						}
					}
					So(prevEnd, ShouldEqual, n)
					So(total, ShouldEqual, n)
					So(maxLen-minLen, ShouldBeLessThanOrEqualTo, 1)
				}
			}
		})

		Convey("When the remainder is nonzero", func() {
			spans, err := partition.Contiguous(10, 3)
			So(err, ShouldBeNil)

			Convey("Then the first remainder workers get the extra unit", func() {
				So(spans[0].Len(), ShouldEqual, 4)
				So(spans[1].Len(), ShouldEqual, 3)
				So(spans[2].Len(), ShouldEqual, 3)
			})
		})

		Convey("When the worker count is invalid", func() {
			_, err := partition.Contiguous(10, 0)
			So(err, ShouldEqual, partition.ErrInvalidWorkerCount)
		})
	})
}

func TestRoundRobin(t *testing.T) {
	Convey("Given round-robin partitioning", t, func() {
		Convey("When distributing batches", func() {
			for batches := 0; batches <= 20; batches++ {
				for w := 1; w <= 6; w++ {
					assigned, err := partition.RoundRobin(batches, w)
					So(err, ShouldBeNil)
					So(len(assigned), ShouldEqual, w)

					seen := make(map[int]int)
					minLen, maxLen := batches+1, -1
					for _, ids := range assigned {
						for _, id := range ids {
							seen[id]++
						}
						if len(ids) < minLen {
							minLen = len(ids)
						}
						if len(ids) > maxLen {
							maxLen = len(ids)
						}
					}

					// Set membership preserved: each batch exactly once.
					So(len(seen), ShouldEqual, batches)
					for _, count := range seen {
						So(count, ShouldEqual, 1)
					}
					So(maxLen-minLen, ShouldBeLessThanOrEqualTo, 1)
				}
			}
		})

		Convey("When a specific stride is checked", func() {
			assigned, err := partition.RoundRobin(7, 3)
			So(err, ShouldBeNil)
			So(assigned[0], ShouldResemble, []int{0, 3, 6})
			So(assigned[1], ShouldResemble, []int{1, 4})
			So(assigned[2], ShouldResemble, []int{2, 5})
		})
	})
}

func TestBatches(t *testing.T) {
	Convey("Given batch splitting", t, func() {
		Convey("When n is not a multiple of the batch size", func() {
			spans, err := partition.Batches(10, 4)
			So(err, ShouldBeNil)
			So(spans, ShouldResemble, []partition.Span{{Start: 0, End: 4}, {Start: 4, End: 8}, {Start: 8, End: 10}})
		})

		Convey("When n is zero", func() {
			spans, err := partition.Batches(0, 4)
			So(err, ShouldBeNil)
			So(len(spans), ShouldEqual, 0)
		})

		Convey("When the batch size is invalid", func() {
			_, err := partition.Batches(10, 0)
			So(err, ShouldEqual, partition.ErrInvalidBatchSize)
		})
	})
}
