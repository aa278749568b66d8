package uid

import (
	"regexp"
	"strconv"
	"sync"
	"testing"

	"github.com/hatlonely/rdbadmin/refx"
	. "github.com/smartystreets/goconvey/convey"
)

func TestUUIDGenerator(t *testing.T) {
	Convey("UUID", t, func() {
		hyphenated := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
		plain := regexp.MustCompile(`^[0-9a-f]{32}$`)

		So(hyphenated.MatchString(NewUUIDGeneratorWithOptions(nil).Generate()), ShouldBeTrue)
		So(plain.MatchString(NewUUIDGeneratorWithOptions(&UUIDOptions{Version: "v7"}).Generate()), ShouldBeTrue)

		for _, version := range []string{"v1", "v4", "v6", "v7"} {
			g := NewUUIDGeneratorWithOptions(&UUIDOptions{Version: version, WithHyphens: true})
			id := g.Generate()
			So(hyphenated.MatchString(id), ShouldBeTrue)
			So(id[14:15], ShouldEqual, version[1:])
		}
	})
}

func TestSnowflakeGenerator(t *testing.T) {
	Convey("Snowflake 并发生成不重复且递增", t, func() {
		machineID := int64(7)
		g := NewSnowflakeGeneratorWithOptions(&SnowflakeOptions{MachineID: &machineID})

		const workers, perWorker = 8, 2000
		ids := make(chan int64, workers*perWorker)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < perWorker; j++ {
					ids <- g.Next()
				}
			}()
		}
		wg.Wait()
		close(ids)

		seen := make(map[int64]struct{}, workers*perWorker)
		for id := range ids {
			So(id>>machineIDShift&maxMachineID, ShouldEqual, machineID)
			seen[id] = struct{}{}
		}
		So(len(seen), ShouldEqual, workers*perWorker)

		a, _ := strconv.ParseInt(g.Generate(), 10, 64)
		b, _ := strconv.ParseInt(g.Generate(), 10, 64)
		So(b, ShouldBeGreaterThan, a)
	})
}

func TestNewGeneratorWithOptions(t *testing.T) {
	Convey("通过注册表创建", t, func() {
		g, err := NewGeneratorWithOptions(nil)
		So(err, ShouldBeNil)
		So(g, ShouldHaveSameTypeAs, &UUIDGenerator{})

		g, err = NewGeneratorWithOptions(&refx.TypeOptions{
			Type:    "Snowflake",
			Options: map[string]any{"machineID": 3},
		})
		So(err, ShouldBeNil)
		So(g, ShouldHaveSameTypeAs, &SnowflakeGenerator{})
		_, err = strconv.ParseInt(g.Generate(), 10, 64)
		So(err, ShouldBeNil)

		g, err = NewGeneratorWithOptions(&refx.TypeOptions{
			Type:    "UUID",
			Options: map[string]any{"version": "v7", "withHyphens": false},
		})
		So(err, ShouldBeNil)
		So(len(g.Generate()), ShouldEqual, 32)

		_, err = NewGeneratorWithOptions(&refx.TypeOptions{Type: "Redis"})
		So(err, ShouldNotBeNil)
	})
}
