package uid

import (
	"net"
	"strconv"
	"sync/atomic"
	"time"
)

type SnowflakeOptions struct {
	// 机器 ID，为 nil 时取本机 IPv4 地址的后两个字节
	MachineID *int64 `cfg:"machineID"`
}

// SnowflakeGenerator 64 位：1 位符号 + 41 位毫秒时间戳 + 10 位机器 ID + 12 位序列号
type SnowflakeGenerator struct {
	state     int64 // 高位时间戳，低 12 位序列号
	machineID int64
	epoch     int64
}

const (
	sequenceBits  = 12
	machineIDBits = 10

	maxSequence  = (1 << sequenceBits) - 1
	maxMachineID = (1 << machineIDBits) - 1

	machineIDShift = sequenceBits
	timestampShift = sequenceBits + machineIDBits
)

func NewSnowflakeGeneratorWithOptions(options *SnowflakeOptions) *SnowflakeGenerator {
	var machineID int64
	if options != nil && options.MachineID != nil {
		machineID = *options.MachineID
	} else {
		machineID = machineIDFromIP()
	}
	machineID &= maxMachineID

	epoch := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	return &SnowflakeGenerator{
		state:     (time.Now().UnixMilli() - epoch) << sequenceBits,
		machineID: machineID,
		epoch:     epoch,
	}
}

func machineIDFromIP() int64 {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return 0
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipv4 := ipnet.IP.To4(); ipv4 != nil {
				return int64(ipv4[2])<<8 | int64(ipv4[3])
			}
		}
	}
	return 0
}

// Next 返回整数形式的 ID，同一毫秒内序列号用完时等待下一毫秒
func (g *SnowflakeGenerator) Next() int64 {
	for {
		oldState := atomic.LoadInt64(&g.state)
		oldTimestamp := oldState >> sequenceBits
		oldSequence := oldState & maxSequence

		timestamp := time.Now().UnixMilli() - g.epoch

		var newTimestamp, newSequence int64
		if timestamp <= oldTimestamp {
			newTimestamp = oldTimestamp
			newSequence = (oldSequence + 1) & maxSequence
			if newSequence == 0 {
				for timestamp <= oldTimestamp {
					timestamp = time.Now().UnixMilli() - g.epoch
				}
				newTimestamp = timestamp
			}
		} else {
			newTimestamp = timestamp
		}

		newState := newTimestamp<<sequenceBits | newSequence
		if atomic.CompareAndSwapInt64(&g.state, oldState, newState) {
			return newTimestamp<<timestampShift | g.machineID<<machineIDShift | newSequence
		}
	}
}

func (g *SnowflakeGenerator) Generate() string {
	return strconv.FormatInt(g.Next(), 10)
}
