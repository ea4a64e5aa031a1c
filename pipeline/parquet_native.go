package pipeline

import (
	"math"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

type sampleParquetRow struct {
	ActivityID   int64   `parquet:"name=activity_id, type=INT64"`
	Sport        string  `parquet:"name=sport, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	TSUTCISO     string  `parquet:"name=ts_utc_iso, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Latitude     string  `parquet:"name=latitude, type=BYTE_ARRAY, convertedtype=UTF8"`
	Longitude    string  `parquet:"name=longitude, type=BYTE_ARRAY, convertedtype=UTF8"`
	AltitudeM    float64 `parquet:"name=altitude_m, type=DOUBLE"`
	HRBPM        float64 `parquet:"name=hr_bpm, type=DOUBLE"`
	CadenceSPM   float64 `parquet:"name=cadence_spm, type=DOUBLE"`
	Matched      bool    `parquet:"name=telemetry_matched, type=BOOLEAN"`
	Interpolated bool    `parquet:"name=cadence_interpolated, type=BOOLEAN"`
}

func writeSamplesParquet(path string, rows []SampleRow) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	if err := encodeSamplesParquet(fw, rows); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

// MarshalSamplesParquet encodes rows as a snappy-compressed parquet file in memory.
func MarshalSamplesParquet(rows []SampleRow) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	if err := encodeSamplesParquet(fw, rows); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

func encodeSamplesParquet(fw source.ParquetFile, rows []SampleRow) error {
	pw, err := writer.NewParquetWriter(fw, new(sampleParquetRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range rows {
		row := sampleParquetRow{
			ActivityID:   r.ActivityID,
			Sport:        r.Sport,
			TSUTCISO:     r.TSUTCISO,
			Latitude:     r.Latitude,
			Longitude:    r.Longitude,
			AltitudeM:    valueOrNaN(r.AltitudeM),
			HRBPM:        intOrNaN(r.HRBPM),
			CadenceSPM:   intOrNaN(r.CadenceSPM),
			Matched:      r.Matched,
			Interpolated: r.Interpolated,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return err
		}
	}
	return pw.WriteStop()
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func intOrNaN(v *int) float64 {
	if v == nil {
		return math.NaN()
	}
	return float64(*v)
}
