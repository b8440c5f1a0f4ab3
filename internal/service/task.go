package service

import "context"

// OpStatus: флаги одной логической операции: идёт ли она сейчас и чем закончилась последняя попытка.
type OpStatus struct {
	Busy bool   `json:"busy"`
	Err  string `json:"error,omitempty"`
}

// opSlot отслеживает задачи одной операции.
// Все методы вызываются под мьютексом владеющего стора.
type opSlot struct {
	OpStatus
	gen      uint64
	inflight int
	// latestOnly: результат применяется, только если после задачи не запускали новую.
	latestOnly bool
}

// ticket идентифицирует запущенную задачу.
type ticket struct {
	gen   uint64
	epoch uint64
}

func (sl *opSlot) begin(epoch uint64) ticket {
	sl.gen++
	sl.inflight++
	sl.Busy = true
	sl.Err = ""
	return ticket{gen: sl.gen, epoch: epoch}
}

// finish снимает задачу с учёта и сообщает, можно ли применить её результат.
func (sl *opSlot) finish(ctx context.Context, t ticket, epoch uint64) bool {
	sl.inflight--
	sl.Busy = sl.inflight > 0
	if ctx.Err() != nil || t.epoch != epoch {
		return false
	}
	if sl.latestOnly && t.gen != sl.gen {
		return false
	}
	return true
}

// fail записывает ошибку без запуска задачи: вход отклонён до сетевого вызова.
func (sl *opSlot) fail(msg string) {
	sl.Err = msg
}
